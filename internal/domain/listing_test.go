package domain

import "testing"

func TestDays_Count(t *testing.T) {
	tests := []struct {
		name string
		days Days
		want int
	}{
		{"none", Days{}, 0},
		{"weekdays", Days{true, true, true, true, true, false, false}, 5},
		{"all", Days{true, true, true, true, true, true, true}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Schedule{Days: tt.days}
			if got := s.DaysWorked(); got != tt.want {
				t.Errorf("DaysWorked() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 32 {
		t.Fatalf("len(Categories()) = %d, want 32", len(cats))
	}
	if cats[0].Key != "1" || cats[13].Key != "14" || cats[31].Key != "32" {
		t.Errorf("unexpected keys: %q %q %q", cats[0].Key, cats[13].Key, cats[31].Key)
	}
	if cats[13].Slug != "14-busqueda-de-ofertas-de-empleo-en-jalisco" {
		t.Errorf("Slug = %q", cats[13].Slug)
	}
}
