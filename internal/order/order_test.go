// Copyright 2026 The LocalDeals Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package order

import (
	"errors"
	"testing"
)

// TestPurpose: Validates the order transition table, including terminal states.
// Scope: Unit Test
// Expected: Only pending->confirmed, pending->cancelled and confirmed->delivered are allowed.
// Test Case ID: ORD-01
func TestOrder_CanTransition_Table(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusDelivered}: true,
	}

	for _, from := range Statuses {
		for _, to := range Statuses {
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

// TestPurpose: Validates that skipping the confirmed step is rejected.
// Scope: Unit Test
// Expected: pending -> delivered fails with ErrInvalidTransition.
// Test Case ID: ORD-02
func TestOrder_ValidateTransition_NoSkipToDelivered(t *testing.T) {
	err := ValidateTransition(StatusPending, StatusDelivered)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
}

// TestPurpose: Validates that delivered and cancelled are absorbing states.
// Scope: Unit Test
// Expected: Any transition out of a terminal state fails with ErrInvalidTransition.
// Test Case ID: ORD-03
func TestOrder_ValidateTransition_TerminalStates(t *testing.T) {
	for _, from := range []Status{StatusDelivered, StatusCancelled} {
		for _, to := range Statuses {
			if err := ValidateTransition(from, to); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("ValidateTransition(%s, %s) = %v, want ErrInvalidTransition", from, to, err)
			}
		}
	}
}

// TestPurpose: Validates that a target outside the closed enum is rejected.
// Scope: Unit Test
// Expected: ErrInvalidTransition for unknown status strings.
// Test Case ID: ORD-04
func TestOrder_ValidateTransition_UnknownTarget(t *testing.T) {
	if err := ValidateTransition(StatusPending, Status("shipped")); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
	if _, err := ParseStatus("shipped"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ParseStatus: got %v, want ErrInvalidTransition", err)
	}
}
