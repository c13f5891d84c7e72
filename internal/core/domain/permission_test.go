package domain

import (
	"strings"
	"testing"

	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

func TestPermissionValidation(t *testing.T) {
	cases := []struct {
		name        string
		permName    string
		description *string
		want        []string
	}{
		{name: "valid", permName: "create-role", description: ptr("Creates roles")},
		{name: "blank name", permName: "  ", want: []string{"'name' should not be null or blank"}},
		{name: "short name", permName: "ab", want: []string{"'name' must be between 3 and 50 characters"}},
		{
			name:        "both invalid",
			permName:    strings.Repeat("x", 51),
			description: ptr(strings.Repeat("y", 256)),
			want: []string{
				"'name' must be between 3 and 50 characters",
				"'description' should not be greater than 255",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := validation.NewNotification()
			NewPermission(tc.permName, tc.description).Validate(n)
			got := n.Messages()
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("error %d: expected %q, got %q", i, tc.want[i], got[i])
				}
			}
		})
	}
}

func TestPermission_ToRolePermission(t *testing.T) {
	perm := NewPermission("read", nil)
	rp := perm.ToRolePermission()
	if rp.PermissionID != perm.ID || rp.PermissionName != "read" {
		t.Errorf("unexpected role permission %+v", rp)
	}
}
