package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jwalitptl/clinic-registry/internal/model"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
)

const (
	rule          = "========================================="
	invalidChoice = "\n Invalid choice. Please try again."
)

// terminal reads one answer per line and writes plain text prompts.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{in: bufio.NewScanner(in), out: out}
}

func (t *terminal) printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) println(s string) {
	fmt.Fprintln(t.out, s)
}

func (t *terminal) header(msg string) {
	t.printf("\n%s\n%s\n%s\n\n", rule, msg, rule)
}

// readLine returns io.EOF once input is exhausted.
func (t *terminal) readLine(prompt string) (string, error) {
	t.printf("%s", prompt)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.in.Text()), nil
}

// readChoice returns 0 for input that is not a number.
func (t *terminal) readChoice() (int, error) {
	line, err := t.readLine("Enter your choice: ")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// readIndex reads a 1-based choice among n items and returns its 0-based index,
// or -1 after reporting an invalid choice.
func (t *terminal) readIndex(n int) (int, error) {
	choice, err := t.readChoice()
	if err != nil {
		return -1, err
	}
	if choice < 1 || choice > n {
		t.println("")
		t.println(invalidChoice)
		return -1, nil
	}
	return choice - 1, nil
}

func (t *terminal) reportError(err error) {
	if appErr, ok := apperrors.As(err); ok {
		t.printf("\n Error: %s\n", appErr.Message)
		return
	}
	t.printf("\n Error: %v\n", err)
}

func (t *terminal) showNames(names []string) {
	for i, name := range names {
		t.printf("(%d) %s\n", i+1, name)
	}
}

func (t *terminal) showAppointment(index int, a model.Appointment) {
	t.printf("(%d) -----------------------------\n", index)
	t.printf("     Date & Time: %s\n", a.DateTime)
	t.printf("     Doctor: %s\n", a.DoctorName)
	t.printf("     Patient: %s\n\n", a.PatientName)
}

func (t *terminal) showPatientAppointments(refs []model.AppointmentRef) {
	t.header("Appointments")
	if len(refs) == 0 {
		t.println("\n No appointments to show \n")
		return
	}
	for i, ref := range refs {
		t.printf("(%d) -----------------------------\n", i+1)
		t.printf("    Date & Time: %s\n", ref.DateTime)
		t.printf("    Doctor: %s\n", ref.DoctorName)
	}
}

func (t *terminal) showSchedule(refs []model.AppointmentRef) {
	t.println(rule)
	for _, ref := range refs {
		t.printf("Date & Time: %s, Patient: %s\n", ref.DateTime, ref.PatientName)
	}
	t.println(rule)
}

func (t *terminal) showSlots(slots []model.Slot) {
	for i, s := range slots {
		t.printf("Time: %s  (%d)\n", s.DateTime, i+1)
	}
	t.println("")
}

func (t *terminal) showVisitCard(card model.VisitCard) {
	t.printf("Patient Name: %s\n", card.PatientName)
	t.printf("Doctor Name: %s\n", card.DoctorName)
	t.printf("Date & Time: %s\n", card.DateTime)
	t.printf("Diagnosis: %s\n", card.Diagnosis)
	t.println("--------------------------------------")
	t.println("")
}

func isInputEnd(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, context.Canceled)
}
