package models

import "testing"

func TestCanAuthenticate(t *testing.T) {
	cases := []struct {
		name string
		user User
		want bool
	}{
		{"active student", User{Role: RoleStudent, Status: UserStatusActive}, true},
		{"inactive student", User{Role: RoleStudent, Status: UserStatusInactive}, false},
		{"banned student", User{Role: RoleStudent, Status: UserStatusBanned}, false},
		{"student ignores is_active flag", User{Role: RoleStudent, Status: UserStatusBanned, IsActive: true}, false},
		{"active academy", User{Role: RoleAcademy, IsActive: true}, true},
		{"inactive academy", User{Role: RoleAcademy, IsActive: false}, false},
		{"active admin", User{Role: RoleAdmin, IsActive: true}, true},
		{"inactive admin", User{Role: RoleAdmin, IsActive: false}, false},
	}
	for _, tc := range cases {
		if got := tc.user.CanAuthenticate(); got != tc.want {
			t.Fatalf("%s: CanAuthenticate() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Sara", "Alharbi", "Sara Alharbi"},
		{"Sara", "", "Sara"},
		{"", "Alharbi", "Alharbi"},
		{"", "", ""},
	}
	for _, tc := range cases {
		u := User{FirstName: tc.first, LastName: tc.last}
		if got := u.DisplayName(); got != tc.want {
			t.Fatalf("DisplayName(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}
