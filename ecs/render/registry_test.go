package render

import "testing"

func TestLoadImageRemembersFailure(t *testing.T) {
	t.Cleanup(ResetImages)

	if _, err := LoadImage(""); err == nil {
		t.Fatal("empty key must fail")
	}
	_, first := LoadImage("does/not/exist.png")
	if first == nil {
		t.Fatal("missing asset must fail")
	}
	_, second := LoadImage("does/not/exist.png")
	if second != first {
		t.Fatalf("second lookup should reuse the remembered error, got %v", second)
	}

	ResetImages()
	if len(missing) != 0 || len(images) != 0 {
		t.Fatal("reset should clear the cache")
	}
	if GetImage("does/not/exist.png") != nil {
		t.Fatal("nothing cached")
	}
}
