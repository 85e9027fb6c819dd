package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
)

// recordingAudit captures audit events for assertions.
type recordingAudit struct {
	events []audit.Event
}

func (r *recordingAudit) Log(_ context.Context, event audit.Event) {
	r.events = append(r.events, event)
}

// TestPurpose: Validates that Authorize permits granted capabilities without auditing.
// Scope: Unit Test
// Expected: nil error and no audit event for a granted (role, capability) pair.
// Test Case ID: AUZ-05
func TestGuard_Authorize_Granted(t *testing.T) {
	rec := &recordingAudit{}
	guard := authz.NewGuard(authz.DefaultMatrix(), rec)

	actor := authz.Actor{ID: "user-1", Role: authz.RoleDealer}
	if err := guard.Authorize(context.Background(), actor, authz.CapDealsCreate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("granted check must not audit, got %d events", len(rec.events))
	}
}

// TestPurpose: Validates that every denial is uniform and audited, regardless of cause.
// Scope: Unit Test
// Security: Denial uniformity prevents leaking the permission schema to callers.
// Expected: ErrPermissionDenied for missing grants and for unknown roles alike, each with an audit event.
// Test Case ID: AUZ-06
func TestGuard_Authorize_DeniedUniformly(t *testing.T) {
	rec := &recordingAudit{}
	guard := authz.NewGuard(authz.DefaultMatrix(), rec)
	ctx := context.Background()

	cases := []struct {
		name  string
		actor authz.Actor
		cap   authz.Capability
	}{
		{"missing grant", authz.Actor{ID: "u1", Role: authz.RoleEditor}, authz.CapDealsDelete},
		{"unknown role", authz.Actor{ID: "u2", Role: authz.Role("ghost")}, authz.CapDealsRead},
		{"unknown capability", authz.Actor{ID: "u3", Role: authz.RoleAdmin}, authz.Capability("bogus")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := guard.Authorize(ctx, tc.actor, tc.cap)
			if !errors.Is(err, authz.ErrPermissionDenied) {
				t.Fatalf("got %v, want ErrPermissionDenied", err)
			}
		})
	}

	if len(rec.events) != len(cases) {
		t.Fatalf("expected %d audit events, got %d", len(cases), len(rec.events))
	}
	for _, ev := range rec.events {
		if ev.Type != audit.TypePermissionDenied {
			t.Errorf("audit type = %q, want %q", ev.Type, audit.TypePermissionDenied)
		}
	}
}

// TestPurpose: Validates scenario: editor attempting deal deletion is denied per the matrix row.
// Scope: Unit Test
// Expected: ErrPermissionDenied for editor on deals:delete.
// Test Case ID: AUZ-07
func TestGuard_Authorize_EditorCannotDeleteDeals(t *testing.T) {
	guard := authz.NewGuard(authz.DefaultMatrix(), &recordingAudit{})

	actor := authz.Actor{ID: "editor-1", Role: authz.RoleEditor}
	err := guard.Authorize(context.Background(), actor, authz.CapDealsDelete)
	if !errors.Is(err, authz.ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
}
