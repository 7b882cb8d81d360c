package icons

import (
	"strings"
	"testing"
)

func TestDefaultTableIsValid(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("default table: %v", err)
	}
	if table.Target() != "@remixicon/react" {
		t.Fatalf("target = %q, want @remixicon/react", table.Target())
	}
	want := []string{"lucide-react", "@radix-ui/react-icons", "remixicon-react"}
	if got := table.Sources(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("sources = %v, want %v", got, want)
	}
}

func TestDefaultTableTargetsUseRemixNames(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("default table: %v", err)
	}
	for _, source := range table.Sources() {
		for _, m := range table.Mappings(source) {
			if !strings.HasPrefix(m.New, "Ri") && !strings.HasPrefix(m.New, "Remixicon") {
				t.Errorf("%s: %s maps to %s, want a Ri* or Remixicon* name", source, m.Old, m.New)
			}
		}
	}
}

func TestDefaultTableDoesNotMapComponentNames(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("default table: %v", err)
	}
	for _, name := range []string{"Label", "Checkbox", "Button"} {
		if m, ok := table.Lookup("lucide-react", name); ok {
			t.Errorf("%s should not be mapped, got %s", name, m.New)
		}
	}
}

func TestLookup(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("default table: %v", err)
	}

	tests := []struct {
		source string
		name   string
		want   string
		kind   Kind
	}{
		{source: "lucide-react", name: "Check", want: "RiCheckLine", kind: KindIcon},
		{source: "lucide-react", name: "CheckIcon", want: "RiCheckLine", kind: KindIcon},
		{source: "lucide-react", name: "LucideCheck", want: "RiCheckLine", kind: KindIcon},
		{source: "lucide-react", name: "Loader2Icon", want: "RiLoader4Line", kind: KindIcon},
		{source: "lucide-react", name: "CircleCheckIcon", want: "RiCheckboxCircleLine", kind: KindIcon},
		{source: "lucide-react", name: "LucideIcon", want: "RemixiconComponentType", kind: KindType},
		{source: "@radix-ui/react-icons", name: "CaretSortIcon", want: "RiArrowUpDownLine", kind: KindIcon},
		{source: "@radix-ui/react-icons", name: "BellIcon", want: "RiNotification3Line", kind: KindIcon},
		{source: "remixicon-react", name: "ArrowDownLine", want: "RiArrowDownLine", kind: KindIcon},
		{source: "remixicon-react", name: "FlashlightOffLine", want: "RiNotificationOffLine", kind: KindIcon},
	}
	for _, tt := range tests {
		t.Run(tt.source+"/"+tt.name, func(t *testing.T) {
			got, ok := table.Lookup(tt.source, tt.name)
			if !ok {
				t.Fatalf("Lookup(%q, %q) not found", tt.source, tt.name)
			}
			if got.New != tt.want {
				t.Fatalf("Lookup(%q, %q) = %q, want %q", tt.source, tt.name, got.New, tt.want)
			}
			if got.Kind != tt.kind {
				t.Fatalf("Lookup(%q, %q) kind = %q, want %q", tt.source, tt.name, got.Kind, tt.kind)
			}
			if got.Old != tt.name || got.Source != tt.source {
				t.Fatalf("Lookup(%q, %q) = %+v, want old name and source echoed", tt.source, tt.name, got)
			}
		})
	}
}

func TestLookupMisses(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("default table: %v", err)
	}
	cases := []struct {
		source string
		name   string
	}{
		{source: "lucide-react", name: "Rocket"},
		{source: "lucide-react", name: "Icon"},
		{source: "lucide-react", name: "Lucide"},
		{source: "@radix-ui/react-icons", name: "Bell"},
		{source: "unknown", name: "Check"},
	}
	for _, tc := range cases {
		if m, ok := table.Lookup(tc.source, tc.name); ok {
			t.Errorf("Lookup(%q, %q) = %+v, want miss", tc.source, tc.name, m)
		}
	}
}

func TestNewRejectsConflicts(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		sources []Source
		want    string
	}{
		{
			name:    "missing target",
			sources: []Source{{Name: "old", Icons: map[string]string{"A": "RiA"}}},
			want:    "target source is required",
		},
		{
			name:    "no sources",
			target:  "new",
			sources: nil,
			want:    "at least one source is required",
		},
		{
			name:    "source equals target",
			target:  "new",
			sources: []Source{{Name: "new", Icons: map[string]string{"A": "RiA"}}},
			want:    `source "new" is also the target`,
		},
		{
			name:    "empty source",
			target:  "new",
			sources: []Source{{Name: "old"}},
			want:    `source "old" has no mappings`,
		},
		{
			name:    "invalid identifier",
			target:  "new",
			sources: []Source{{Name: "old", Icons: map[string]string{"A": "Ri-A"}}},
			want:    "not an identifier",
		},
		{
			name:   "icon and type",
			target: "new",
			sources: []Source{{
				Name:  "old",
				Icons: map[string]string{"A": "RiA"},
				Types: map[string]string{"A": "RiAType"},
			}},
			want: `"A" is both an icon and a type`,
		},
		{
			name:   "chained mapping",
			target: "new",
			sources: []Source{
				{Name: "old", Icons: map[string]string{"A": "B"}},
				{Name: "older", Icons: map[string]string{"B": "RiB"}},
			},
			want: `which is itself an old name in "older"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.target, tt.sources)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestNewRejectsDuplicateSources(t *testing.T) {
	_, err := New("new", []Source{
		{Name: "old", Icons: map[string]string{"A": "RiA"}},
		{Name: "old", Icons: map[string]string{"B": "RiB"}},
	})
	if err == nil || !strings.Contains(err.Error(), `duplicate source "old"`) {
		t.Fatalf("error = %v, want duplicate source", err)
	}
}

func TestIsIdentifier(t *testing.T) {
	valid := []string{"A", "RiCheckLine", "$icon", "_x", "Edit2", "Ícone"}
	invalid := []string{"", "2Edit", "Ri-Check", "a b", "a.b"}
	for _, name := range valid {
		if !IsIdentifier(name) {
			t.Errorf("IsIdentifier(%q) = false, want true", name)
		}
	}
	for _, name := range invalid {
		if IsIdentifier(name) {
			t.Errorf("IsIdentifier(%q) = true, want false", name)
		}
	}
}
