package domain

import "testing"

func TestGeosetIsReady(t *testing.T) {
	tests := []struct {
		name   string
		geoset Geoset
		want   bool
	}{
		{
			name:   "indexed geoset",
			geoset: Geoset{ID: "zones", Indexed: true},
			want:   true,
		},
		{
			name:   "unindexed geoset",
			geoset: Geoset{ID: "zones", Indexed: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.geoset.IsReady(); got != tt.want {
				t.Errorf("IsReady() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLicenseIsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		license License
		want    bool
	}{
		{
			name:    "empty license",
			license: License{},
			want:    true,
		},
		{
			name:    "with name",
			license: License{Name: "CC BY 4.0"},
			want:    false,
		},
		{
			name:    "with attribution only",
			license: License{Attribution: "© Example Org"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.license.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLicenseString(t *testing.T) {
	tests := []struct {
		name    string
		license License
		want    string
	}{
		{
			name:    "attribution takes precedence",
			license: License{Name: "CC BY 4.0", Attribution: "© Example Org"},
			want:    "© Example Org",
		},
		{
			name:    "falls back to name",
			license: License{Name: "CC BY 4.0"},
			want:    "CC BY 4.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.license.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
