package ct

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and empty", nil, []byte{}, true},
		{"same", []byte("footer"), []byte("footer"), true},
		{"last byte differs", []byte("footer"), []byte("footes"), false},
		{"prefix", []byte("foot"), []byte("footer"), false},
		{"longer", []byte("footer!"), []byte("footer"), false},
		{"zero padded", []byte{1, 0}, []byte{1}, false},
		{"empty and zero byte", []byte{}, []byte{0}, false},
		{"256 length gap", make([]byte, 256), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%x, %x) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal is not symmetric for %q", tt.name)
			}
		})
	}
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not cleared", i)
		}
	}
	Zero(nil)
}

func BenchmarkEqual(b *testing.B) {
	x := make([]byte, 48)
	y := make([]byte, 48)
	for i := 0; i < b.N; i++ {
		Equal(x, y)
	}
}
