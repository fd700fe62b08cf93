package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-registry/internal/registry"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
)

func TestDoctorService(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)
	_, err = reg.ScheduleAppointment("2025-01-10 08:00", "Matthew Taylor", "Frank Lopez")
	require.NoError(t, err)

	svc := NewService(reg)
	ctx := context.Background()

	doctors, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Len(t, doctors, 8)

	d, err := svc.GetDoctor(ctx, "Matthew Taylor")
	require.NoError(t, err)
	require.Len(t, d.Appointments, 1)
	assert.Equal(t, "Frank Lopez", d.Appointments[0].PatientName)

	_, err = svc.GetDoctor(ctx, "Gregory House")
	assert.True(t, apperrors.IsNotFound(err))
}
