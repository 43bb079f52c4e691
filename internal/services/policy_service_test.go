package services

import (
	"errors"
	"testing"

	"github.com/you/investorportal/domain"
	"github.com/you/investorportal/internal/mocks"
)

// createPolicyServiceForTest creates a PolicyService with mock Casbin enforcer
func createPolicyServiceForTest(t *testing.T) (domain.PolicyService, *mocks.MockCasbinEnforcer) {
	t.Helper()

	enforcer := mocks.NewMockCasbinEnforcer()
	policyService := NewPolicyServiceWithEnforcer(enforcer)
	return policyService, enforcer
}

func TestPolicyServiceImpl_AddPolicy(t *testing.T) {
	tests := []struct {
		name          string
		role          string
		resource      string
		action        string
		setupMock     func(*mocks.MockCasbinEnforcer)
		expectedError string
	}{
		{
			name:     "successful policy addition persists",
			role:     "role_admin",
			resource: "/admin/agreements",
			action:   "POST",
			setupMock: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
					if len(params) != 3 || params[0].(string) != "role_admin" {
						t.Errorf("unexpected policy params %v", params)
					}
					return true, nil
				}
			},
		},
		{
			name:     "enforcer failure surfaces",
			role:     "role_admin",
			resource: "/admin/agreements",
			action:   "POST",
			setupMock: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
					return false, errors.New("adapter down")
				}
			},
			expectedError: "adapter down",
		},
		{
			name:     "save failure surfaces",
			role:     "role_admin",
			resource: "/admin/agreements",
			action:   "POST",
			setupMock: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.SavePolicyFunc = func() error {
					return errors.New("save failed")
				}
			},
			expectedError: "save failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, enforcer := createPolicyServiceForTest(t)

			saveCalled := false
			if enforcer.SavePolicyFunc == nil {
				enforcer.SavePolicyFunc = func() error {
					saveCalled = true
					return nil
				}
			}
			tt.setupMock(enforcer)

			err := svc.AddPolicy(tt.role, tt.resource, tt.action)
			if tt.expectedError != "" {
				if err == nil || err.Error() != tt.expectedError {
					t.Fatalf("expected error %q, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !saveCalled {
				t.Error("expected SavePolicy to be called after a successful add")
			}
		})
	}
}

func TestPolicyServiceImpl_CheckPermission(t *testing.T) {
	svc, enforcer := createPolicyServiceForTest(t)
	enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
		return rvals[0].(string) == "role_admin", nil
	}

	allowed, err := svc.CheckPermission("role_admin", "/admin/policies", "GET")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("expected role_admin to be allowed")
	}

	allowed, err = svc.CheckPermission("role_investor", "/admin/policies", "GET")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("expected role_investor to be denied")
	}
}

func TestPolicyServiceImpl_GetPolicies(t *testing.T) {
	svc, enforcer := createPolicyServiceForTest(t)
	enforcer.GetPolicyFunc = func() ([][]string, error) {
		return [][]string{{"role_admin", "/admin/*", "(GET|POST|PUT|DELETE)"}}, nil
	}

	policies := svc.GetPolicies()
	if len(policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(policies))
	}
	if policies[0][0] != "role_admin" {
		t.Errorf("unexpected policy %v", policies[0])
	}
}
