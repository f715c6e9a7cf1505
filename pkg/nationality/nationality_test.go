package nationality

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Bangladesh", Bangladeshi},
		{"BANGLADESHI", Bangladeshi},
		{"India", Indian},
		{"indian ", Indian},
		{"Indonesia", Indonesian},
		{"Malaysian", Malaysian},
		{"Pakistan", Pakistani},
		{"Taiwan", Taiwanese},
		{"R.O.C.", Taiwanese},
		{"ROC (Taiwan)", Taiwanese},
		{"Republic of China", Taiwanese},
		{"republic of china (taiwan)", Taiwanese},
		{"China", Chinese},
		{"Chinese", Chinese},
		{"Singapore", Singaporean},
		{"Vietnam", Vietnamese},
		{"Viet Nam", Vietnamese},
		{"USA", USA},
		{"U.S.A. / American", USA},
		{"United States of America", USA},
		{"Ruritania", "OTHER: ruritania"},
		{"  Japan  ", "OTHER: japan"},
		{"", "OTHER: "},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_OrderBeforeChina(t *testing.T) {
	// "Republic of China" must not fall through to the China rule.
	if got := Normalize("Republic of China"); got == Chinese {
		t.Errorf("Expected Taiwanese for Republic of China, got %s", got)
	}
}

func TestNormalize_UnknownDoesNotMatchChina(t *testing.T) {
	if got := Normalize("Germany"); got != "OTHER: germany" {
		t.Errorf("Expected OTHER: germany, got %q", got)
	}
}

func TestIsCanonical(t *testing.T) {
	if !IsCanonical(Indian) {
		t.Error("Expected Indian to be canonical")
	}
	if IsCanonical(Normalize("Ruritania")) {
		t.Error("Expected OTHER label not to be canonical")
	}
}
