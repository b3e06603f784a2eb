package finalize_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/Skryldev/image-acquire/adapters/decoder"
	"github.com/Skryldev/image-acquire/adapters/encoder"
	"github.com/Skryldev/image-acquire/adapters/storage"
	"github.com/Skryldev/image-acquire/config"
	"github.com/Skryldev/image-acquire/core"
	"github.com/Skryldev/image-acquire/finalize"
)

func newRegistry() core.Registry {
	reg := core.NewRegistry()
	reg.RegisterDecoder(core.FormatJPEG, decoder.NewJPEG())
	reg.RegisterDecoder(core.FormatPNG, decoder.NewPNG())
	reg.RegisterDecoder(core.FormatWebP, decoder.NewWebP())
	reg.RegisterEncoder(core.FormatJPEG, encoder.NewJPEG(80))
	return reg
}

func newFinalizer(cfg config.Config, store core.Storage) *finalize.Finalizer {
	return finalize.New(cfg, store, newRegistry())
}

func encodeJPEG(t *testing.T, w, h, quality int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 80, B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 50, G: 50, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func readAll(t *testing.T, store core.Storage, loc core.Locator) []byte {
	t.Helper()
	rc, err := store.Open(context.Background(), loc)
	if err != nil {
		t.Fatalf("open %s: %v", loc, err)
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		t.Fatalf("read %s: %v", loc, err)
	}
	return buf.Bytes()
}

func TestFinalize_NilLocator(t *testing.T) {
	store := storage.NewMemory()
	for _, compress := range []bool{false, true} {
		fin := newFinalizer(config.Default(), store)
		res := fin.Finalize(context.Background(),
			core.AcquisitionConfig{RequestID: 11, Compress: compress}, nil)
		if res.RequestID != 11 {
			t.Errorf("request id = %d, want 11", res.RequestID)
		}
		if res.Locator != nil {
			t.Errorf("compress=%v: locator = %v, want nil", compress, res.Locator)
		}
	}
}

func TestFinalize_PassThroughWhenDisabled(t *testing.T) {
	store := storage.NewMemory()
	fin := newFinalizer(config.Default(), store)

	raw := core.Locator("mem://pictures/untouched.jpg")
	res := fin.Finalize(context.Background(),
		core.AcquisitionConfig{RequestID: 5, Compress: false}, &raw)
	if res.Locator == nil || *res.Locator != raw {
		t.Errorf("locator = %v, want %s unchanged", res.Locator, raw)
	}
}

func TestFinalize_CompressProducesNewLocator(t *testing.T) {
	store := storage.NewMemory()
	raw := core.Locator("mem://pictures/shot.jpg")
	store.Seed(raw, encodeJPEG(t, 640, 480, 95))

	fin := newFinalizer(config.Default(), store)
	res := fin.Finalize(context.Background(),
		core.AcquisitionConfig{RequestID: 8, Compress: true}, &raw)
	if res.Locator == nil {
		t.Fatal("locator is nil")
	}
	if *res.Locator == raw {
		t.Fatal("compressed output must live at a new locator")
	}

	out := readAll(t, store, *res.Locator)
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not decodable JPEG: %v", err)
	}
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 480 {
		t.Errorf("output dimensions %v, want 640x480", img.Bounds())
	}
}

func TestFinalize_CompressPNGSource(t *testing.T) {
	store := storage.NewMemory()
	raw := core.Locator("mem://pictures/shot.png")
	store.Seed(raw, encodePNG(t, 120, 90))

	fin := newFinalizer(config.Default(), store)
	res := fin.Finalize(context.Background(),
		core.AcquisitionConfig{RequestID: 1, Compress: true}, &raw)
	if res.Locator == nil || *res.Locator == raw {
		t.Fatalf("locator = %v, want a new locator", res.Locator)
	}
	if _, err := jpeg.Decode(bytes.NewReader(readAll(t, store, *res.Locator))); err != nil {
		t.Errorf("png source was not re-encoded as JPEG: %v", err)
	}
}

func TestFinalize_CorruptSource_FailOpen(t *testing.T) {
	store := storage.NewMemory()
	raw := core.Locator("mem://pictures/corrupt.jpg")
	store.Seed(raw, []byte{0xFF, 0xD8, 0xFF, 0x00, 0x01, 0x02, 0x03})

	fin := newFinalizer(config.Default(), store)
	res := fin.Finalize(context.Background(),
		core.AcquisitionConfig{RequestID: 3, Compress: true}, &raw)
	if res.Locator == nil || *res.Locator != raw {
		t.Errorf("corrupt source: locator = %v, want original %s", res.Locator, raw)
	}
}

func TestFinalize_MissingSource_FailOpen(t *testing.T) {
	store := storage.NewMemory()
	raw := core.Locator("mem://pictures/vanished.jpg")

	fin := newFinalizer(config.Default(), store)
	res := fin.Finalize(context.Background(),
		core.AcquisitionConfig{RequestID: 4, Compress: true}, &raw)
	if res.Locator == nil || *res.Locator != raw {
		t.Errorf("missing source: locator = %v, want original %s", res.Locator, raw)
	}
}

func TestFinalize_MaxDimensionBound(t *testing.T) {
	store := storage.NewMemory()
	raw := core.Locator("mem://pictures/large.jpg")
	store.Seed(raw, encodeJPEG(t, 800, 400, 90))

	cfg := config.Default()
	cfg.MaxDimension = 200
	fin := newFinalizer(cfg, store)

	res := fin.Finalize(context.Background(),
		core.AcquisitionConfig{RequestID: 2, Compress: true}, &raw)
	if res.Locator == nil || *res.Locator == raw {
		t.Fatalf("locator = %v, want a new locator", res.Locator)
	}
	img, err := jpeg.Decode(bytes.NewReader(readAll(t, store, *res.Locator)))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Errorf("bounded dimensions %v, want 200x100", img.Bounds())
	}
}

// failingTranscoder forces the transcoder path to fail.
type failingTranscoder struct{}

func (failingTranscoder) TranscodeJPEG(context.Context, []byte, int, int) ([]byte, error) {
	return nil, errors.New("backend exploded")
}

func TestFinalize_TranscoderFailure_FailOpen(t *testing.T) {
	store := storage.NewMemory()
	raw := core.Locator("mem://pictures/shot.jpg")
	store.Seed(raw, encodeJPEG(t, 64, 64, 90))

	fin := newFinalizer(config.Default(), store)
	fin.SetTranscoder(failingTranscoder{})

	res := fin.Finalize(context.Background(),
		core.AcquisitionConfig{RequestID: 6, Compress: true}, &raw)
	if res.Locator == nil || *res.Locator != raw {
		t.Errorf("transcoder failure: locator = %v, want original %s", res.Locator, raw)
	}
}

// staticTranscoder returns fixed bytes, standing in for the vips backend.
type staticTranscoder struct{ out []byte }

func (s staticTranscoder) TranscodeJPEG(context.Context, []byte, int, int) ([]byte, error) {
	return s.out, nil
}

func TestFinalize_TranscoderPreferred(t *testing.T) {
	store := storage.NewMemory()
	raw := core.Locator("mem://pictures/shot.jpg")
	store.Seed(raw, encodeJPEG(t, 64, 64, 90))

	want := encodeJPEG(t, 8, 8, 50)
	fin := newFinalizer(config.Default(), store)
	fin.SetTranscoder(staticTranscoder{out: want})

	res := fin.Finalize(context.Background(),
		core.AcquisitionConfig{RequestID: 9, Compress: true}, &raw)
	if res.Locator == nil || *res.Locator == raw {
		t.Fatalf("locator = %v, want a new locator", res.Locator)
	}
	if got := readAll(t, store, *res.Locator); !bytes.Equal(got, want) {
		t.Error("ephemeral output does not match transcoder bytes")
	}
}
