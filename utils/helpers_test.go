package utils

import (
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}, "png"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "webp"},
		{"garbage", []byte{0x00, 0x01, 0x02, 0x03, 0x04}, "unknown"},
		{"too short", []byte{0xFF}, "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFormat(tc.data); got != tc.want {
				t.Errorf("DetectFormat = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestScaleDimensions(t *testing.T) {
	tests := []struct {
		srcW, srcH, targetW, targetH int
		wantW, wantH                 int
	}{
		{800, 600, 400, 0, 400, 300},
		{800, 600, 0, 300, 400, 300},
		{800, 600, 200, 200, 200, 200},
		{800, 600, 0, 0, 800, 600},
	}
	for _, tc := range tests {
		gotW, gotH := ScaleDimensions(tc.srcW, tc.srcH, tc.targetW, tc.targetH)
		if gotW != tc.wantW || gotH != tc.wantH {
			t.Errorf("ScaleDimensions(%d,%d,%d,%d) = %d,%d; want %d,%d",
				tc.srcW, tc.srcH, tc.targetW, tc.targetH, gotW, gotH, tc.wantW, tc.wantH)
		}
	}
}

func TestBoundDimensions(t *testing.T) {
	tests := []struct {
		srcW, srcH, max int
		wantW, wantH    int
	}{
		{800, 400, 200, 200, 100},
		{400, 800, 200, 100, 200},
		{100, 100, 200, 100, 100}, // already within bound
		{800, 400, 0, 800, 400},   // bound disabled
	}
	for _, tc := range tests {
		gotW, gotH := BoundDimensions(tc.srcW, tc.srcH, tc.max)
		if gotW != tc.wantW || gotH != tc.wantH {
			t.Errorf("BoundDimensions(%d,%d,%d) = %d,%d; want %d,%d",
				tc.srcW, tc.srcH, tc.max, gotW, gotH, tc.wantW, tc.wantH)
		}
	}
}

func TestGenerateFileName_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := GenerateFileName("IMG")
		if seen[name] {
			t.Fatalf("duplicate generated name: %s", name)
		}
		seen[name] = true
		if !strings.HasPrefix(name, "IMG_") {
			t.Errorf("name %s missing prefix", name)
		}
	}
}

func TestGenerateFileName_DefaultPrefix(t *testing.T) {
	if name := GenerateFileName(""); !strings.HasPrefix(name, "IMG_") {
		t.Errorf("name %s missing default prefix", name)
	}
}
