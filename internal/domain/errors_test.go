package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want domain.ErrorKind
	}{
		{domain.ErrLinesRequired, domain.KindValidation},
		{domain.ErrAmountMismatch, domain.KindValidation},
		{domain.ErrComplaintTypeRequired, domain.KindValidation},
		{domain.ErrOrderNotFound, domain.KindNotFound},
		{domain.ErrProductNotFound, domain.KindNotFound},
		{domain.ErrForbidden, domain.KindForbidden},
		{domain.ErrInvalidCredentials, domain.KindForbidden},
		{domain.ErrInsufficientStock, domain.KindConflict},
		{domain.ErrInvalidTransition, domain.KindConflict},
		{domain.ErrAlreadyExists, domain.KindConflict},
		{context.DeadlineExceeded, domain.KindInternal},
		{errors.New("connection refused"), domain.KindInternal},
	}

	for _, tc := range cases {
		if got := domain.Classify(tc.err); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestClassify_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("place order: %w", domain.ErrInsufficientStock)
	if got := domain.Classify(wrapped); got != domain.KindConflict {
		t.Fatalf("wrapped conflict classified as %s", got)
	}
	if !domain.IsConflict(wrapped) {
		t.Fatal("IsConflict should see through wrapping")
	}
}
