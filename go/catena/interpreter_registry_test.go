// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package catena

import (
	"strings"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestRegistry_RegisteredFactoryCanBeLookedUpCaseInsensitive(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)

	err := RegisterInterpreterFactory("Test-Lookup", func(any) (Interpreter, error) {
		return mock, nil
	})
	if err != nil {
		t.Fatalf("failed to register factory: %v", err)
	}

	for _, name := range []string{"test-lookup", "Test-Lookup", "TEST-LOOKUP"} {
		if GetInterpreterFactory(name) == nil {
			t.Errorf("factory not found under name %q", name)
		}
		interpreter, err := NewInterpreter(name)
		if err != nil {
			t.Fatalf("failed to create interpreter %q: %v", name, err)
		}
		if interpreter != mock {
			t.Errorf("factory produced unexpected instance")
		}
	}
}

func TestRegistry_UnknownNamesAreReported(t *testing.T) {
	if GetInterpreterFactory("test-does-not-exist") != nil {
		t.Errorf("lookup of unknown name should fail")
	}
	_, err := NewInterpreter("test-does-not-exist")
	if err == nil || !strings.Contains(err.Error(), "interpreter not found") {
		t.Errorf("expected a not-found error, got %v", err)
	}
}

func TestRegistry_DuplicatedRegistrationIsRejected(t *testing.T) {
	factory := func(any) (Interpreter, error) { return nil, nil }
	if err := RegisterInterpreterFactory("test-duplicate", factory); err != nil {
		t.Fatalf("failed to register factory: %v", err)
	}
	if err := RegisterInterpreterFactory("Test-Duplicate", factory); err == nil {
		t.Errorf("re-registration under an equivalent name should fail")
	}
}

func TestRegistry_NilFactoryIsRejected(t *testing.T) {
	if err := RegisterInterpreterFactory("test-nil", nil); err == nil {
		t.Errorf("registration of a nil factory should fail")
	}
}

func TestRegistry_ConfigurationIsForwardedToTheFactory(t *testing.T) {
	type config struct{ value int }
	var received any
	err := RegisterInterpreterFactory("test-config", func(c any) (Interpreter, error) {
		received = c
		return nil, nil
	})
	if err != nil {
		t.Fatalf("failed to register factory: %v", err)
	}

	if _, err := NewInterpreter("test-config", config{value: 42}); err != nil {
		t.Fatalf("failed to create interpreter: %v", err)
	}
	if want, got := (config{value: 42}), received; want != got {
		t.Errorf("factory received unexpected configuration, wanted %v, got %v", want, got)
	}

	if _, err := NewInterpreter("test-config", 1, 2); err == nil {
		t.Errorf("passing more than one configuration should fail")
	}
}

func TestRegistry_ListingContainsRegisteredImplementations(t *testing.T) {
	err := RegisterInterpreterFactory("test-listing", func(any) (Interpreter, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("failed to register factory: %v", err)
	}
	all := GetAllRegisteredInterpreters()
	if _, found := all["test-listing"]; !found {
		t.Errorf("listing misses registered implementation")
	}
}

func TestMockInterpreter_ForwardsParametersAndResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockInterpreter(ctrl)

	params := Parameters{Gas: 12, Code: Code{0x00}}
	want := Outcome{Status: Reverted, GasLeft: 7}
	mock.EXPECT().Run(params).Return(want, nil)

	got, err := mock.Run(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want.Status != got.Status || want.GasLeft != got.GasLeft {
		t.Errorf("unexpected outcome, wanted %v, got %v", want, got)
	}
}
