package permission

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Permission
		ok   bool
	}{
		{"products:read", Permission{"products", "read"}, true},
		{"registers:manage", Permission{"registers", "manage"}, true},
		{" sales:create ", Permission{"sales", "create"}, true},
		{"products", Permission{}, false},
		{":read", Permission{}, false},
		{"products:", Permission{}, false},
		{"", Permission{}, false},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Parse(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSetCan(t *testing.T) {
	set := NewSet([]string{"sales:create", "registers:manage", "bogus"})

	cases := []struct {
		resource, action string
		want             bool
	}{
		{"sales", "create", true},
		{"sales", "delete", false},
		// manage implies every action on the resource
		{"registers", "open", true},
		{"registers", "close", true},
		{"registers", "manage", true},
		{"products", "read", false},
	}
	for _, tc := range cases {
		if got := set.Can(tc.resource, tc.action); got != tc.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tc.resource, tc.action, got, tc.want)
		}
	}
}

func TestSetCanWildcard(t *testing.T) {
	admin := NewSet([]string{"*:manage"})
	for _, resource := range []string{ResourceProducts, ResourceRegisters, ResourceUsers} {
		if !admin.Can(resource, "delete") {
			t.Errorf("*:manage should grant %s:delete", resource)
		}
	}

	// plain wildcard resource without manage grants nothing
	odd := NewSet([]string{"*:read"})
	if odd.Can(ResourceProducts, "read") {
		t.Error("*:read should not grant products:read")
	}
}
