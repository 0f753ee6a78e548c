package ramses

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xflotus/ramses/texel"
)

func newTestBuffer(t *testing.T, w, h uint32, format texel.Format, levels uint32) *Texture2DBuffer {
	t.Helper()
	sc := NewScene(SceneID(1))
	tb, err := sc.CreateTexture2DBuffer(w, h, format, levels)
	if err != nil {
		t.Fatalf("CreateTexture2DBuffer() error = %v", err)
	}
	return tb
}

func TestGetMipLevelSize(t *testing.T) {
	tb := newTestBuffer(t, 256, 256, texel.RGBA8, 4)
	tests := []struct {
		level          uint32
		wantW, wantH   uint32
		wantStatus     Status
	}{
		{0, 256, 256, StatusOK},
		{1, 128, 128, StatusOK},
		{2, 64, 64, StatusOK},
		{3, 32, 32, StatusOK},
		{4, 0, 0, StatusInvalidMipLevel},
	}
	for _, tt := range tests {
		w, h, st := tb.GetMipLevelSize(tt.level)
		if w != tt.wantW || h != tt.wantH || st != tt.wantStatus {
			t.Errorf("GetMipLevelSize(%d) = %d, %d, %v; want %d, %d, %v",
				tt.level, w, h, st, tt.wantW, tt.wantH, tt.wantStatus)
		}
	}
}

func TestGetMipLevelDataSizeInBytes(t *testing.T) {
	tb := newTestBuffer(t, 256, 256, texel.RGBA8, 4)
	tests := []struct {
		level uint32
		want  uint32
	}{
		{0, 256 * 256 * 4},
		{1, 128 * 128 * 4},
		{2, 16384},
		{3, 32 * 32 * 4},
		{4, 0},
		{100, 0},
	}
	for _, tt := range tests {
		if got := tb.GetMipLevelDataSizeInBytes(tt.level); got != tt.want {
			t.Errorf("GetMipLevelDataSizeInBytes(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestSetDataStatusCodes(t *testing.T) {
	tb := newTestBuffer(t, 128, 128, texel.RGBA8, 2)
	tests := []struct {
		name                            string
		dataLen                         int
		level, x, y, w, h               uint32
		want                            Status
	}{
		{"full level", 128 * 128 * 4, 0, 0, 0, 128, 128, StatusOK},
		{"edge fit", 8 * 8 * 4, 0, 120, 120, 8, 8, StatusOK},
		{"edge overflow", 10 * 10 * 4, 0, 120, 120, 10, 10, StatusOutOfBounds},
		{"bad level", 4, 2, 0, 0, 1, 1, StatusInvalidMipLevel},
		{"short source", 8*8*4 - 1, 0, 0, 0, 8, 8, StatusInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.dataLen)
			if got := tb.SetData(data, tt.level, tt.x, tt.y, tt.w, tt.h); got != tt.want {
				t.Errorf("SetData() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetMipLevelDataRoundTrip(t *testing.T) {
	tb := newTestBuffer(t, 8, 8, texel.RGBA8, 2)
	src := make([]byte, 8*8*4)
	for i := range src {
		src[i] = byte(i * 3)
	}
	if st := tb.SetData(src, 0, 0, 0, 8, 8); st != StatusOK {
		t.Fatalf("SetData() = %v", st)
	}

	dst := make([]byte, len(src))
	if st := tb.GetMipLevelData(0, dst); st != StatusOK {
		t.Fatalf("GetMipLevelData() = %v", st)
	}
	if !bytes.Equal(dst, src) {
		t.Error("read-back bytes differ from written bytes")
	}

	// Short destination truncates silently.
	short := make([]byte, 7)
	if st := tb.GetMipLevelData(0, short); st != StatusOK {
		t.Fatalf("GetMipLevelData() short dst = %v", st)
	}
	if !bytes.Equal(short, src[:7]) {
		t.Errorf("truncated read = %v, want %v", short, src[:7])
	}

	if st := tb.GetMipLevelData(2, dst); st != StatusInvalidMipLevel {
		t.Errorf("GetMipLevelData(2) = %v, want StatusInvalidMipLevel", st)
	}
}

func TestLevelBytes(t *testing.T) {
	tb := newTestBuffer(t, 4, 4, texel.R8, 1)
	if st := tb.SetData([]byte{9}, 0, 2, 3, 1, 1); st != StatusOK {
		t.Fatalf("SetData() = %v", st)
	}
	raw := tb.LevelBytes(0)
	if len(raw) != 16 {
		t.Fatalf("LevelBytes(0) length = %d, want 16", len(raw))
	}
	if raw[3*4+2] != 9 {
		t.Errorf("texel (2,3) = %d, want 9", raw[3*4+2])
	}
	if tb.LevelBytes(1) != nil {
		t.Error("LevelBytes(1) != nil for out-of-range level")
	}
}

func TestDirtyRegionAndFlush(t *testing.T) {
	tb := newTestBuffer(t, 16, 16, texel.R8, 1)
	if r, ok := tb.DirtyRegion(0); !ok || !r.Empty() {
		t.Fatalf("DirtyRegion(0) = %+v, %v; want empty, true", r, ok)
	}
	if st := tb.SetData(make([]byte, 4), 0, 4, 4, 2, 2); st != StatusOK {
		t.Fatalf("SetData() = %v", st)
	}
	r, ok := tb.DirtyRegion(0)
	if !ok || r != (Region{X: 4, Y: 4, Width: 2, Height: 2}) {
		t.Errorf("DirtyRegion(0) = %+v, %v", r, ok)
	}
	tb.FlushDirty()
	if r, _ := tb.DirtyRegion(0); !r.Empty() {
		t.Errorf("DirtyRegion(0) after FlushDirty = %+v, want empty", r)
	}
	if _, ok := tb.DirtyRegion(1); ok {
		t.Error("DirtyRegion(1) ok = true, want false")
	}
}

func TestGenerateMipChain(t *testing.T) {
	tb := newTestBuffer(t, 8, 8, texel.RGBA8, 3)
	base := bytes.Repeat([]byte{0x20, 0x40, 0x60, 0xFF}, 8*8)
	if st := tb.SetData(base, 0, 0, 0, 8, 8); st != StatusOK {
		t.Fatalf("SetData() = %v", st)
	}
	if st := tb.GenerateMipChain(); st != StatusOK {
		t.Fatalf("GenerateMipChain() = %v", st)
	}
	lv1 := tb.LevelBytes(1)
	for i := 0; i < len(lv1); i += 4 {
		if lv1[i] != 0x20 || lv1[i+1] != 0x40 || lv1[i+2] != 0x60 || lv1[i+3] != 0xFF {
			t.Fatalf("level 1 texel %d = %v, want 20 40 60 FF", i/4, lv1[i:i+4])
		}
	}
}

func TestGenerateMipChainFloatFormat(t *testing.T) {
	tb := newTestBuffer(t, 8, 8, texel.R32F, 2)
	if st := tb.GenerateMipChain(); st != StatusError {
		t.Errorf("GenerateMipChain() = %v, want StatusError", st)
	}
}

func TestSetDataFromImage(t *testing.T) {
	tb := newTestBuffer(t, 4, 4, texel.RGBA8, 1)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: byte(x * 50), G: byte(y * 50), B: 7, A: 255})
		}
	}
	if st := tb.SetDataFromImage(img, 0); st != StatusOK {
		t.Fatalf("SetDataFromImage() = %v", st)
	}
	if !bytes.Equal(tb.LevelBytes(0), img.Pix) {
		t.Error("level bytes differ from image pixels")
	}
}

func TestSetDataFromImageConvertsNonRGBA(t *testing.T) {
	tb := newTestBuffer(t, 2, 2, texel.RGBA8, 1)
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(0, 0, color.Gray{Y: 200})
	if st := tb.SetDataFromImage(gray, 0); st != StatusOK {
		t.Fatalf("SetDataFromImage() = %v", st)
	}
	raw := tb.LevelBytes(0)
	if raw[0] != 200 || raw[1] != 200 || raw[2] != 200 || raw[3] != 255 {
		t.Errorf("converted texel = %v, want 200 200 200 255", raw[:4])
	}
}

func TestSetDataFromImageErrors(t *testing.T) {
	tb := newTestBuffer(t, 4, 4, texel.RGBA8, 1)
	wrong := image.NewRGBA(image.Rect(0, 0, 3, 4))
	if st := tb.SetDataFromImage(wrong, 0); st != StatusOutOfBounds {
		t.Errorf("SetDataFromImage() wrong size = %v, want StatusOutOfBounds", st)
	}
	ok := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if st := tb.SetDataFromImage(ok, 1); st != StatusInvalidMipLevel {
		t.Errorf("SetDataFromImage() bad level = %v, want StatusInvalidMipLevel", st)
	}

	floatBuf := newTestBuffer(t, 4, 4, texel.R32F, 1)
	if st := floatBuf.SetDataFromImage(ok, 0); st != StatusError {
		t.Errorf("SetDataFromImage() on R32F = %v, want StatusError", st)
	}
}

func TestGetMipLevelImage(t *testing.T) {
	tb := newTestBuffer(t, 2, 2, texel.RGBA8, 1)
	src := []byte{
		1, 2, 3, 255, 4, 5, 6, 255,
		7, 8, 9, 255, 10, 11, 12, 255,
	}
	if st := tb.SetData(src, 0, 0, 0, 2, 2); st != StatusOK {
		t.Fatalf("SetData() = %v", st)
	}
	img, st := tb.GetMipLevelImage(0)
	if st != StatusOK {
		t.Fatalf("GetMipLevelImage() = %v", st)
	}
	if !bytes.Equal(img.Pix, src) {
		t.Error("image pixels differ from level bytes")
	}
	// The image is a copy; mutating it leaves the level untouched.
	img.Pix[0] = 99
	if tb.LevelBytes(0)[0] != 1 {
		t.Error("mutating the returned image changed the level buffer")
	}

	if _, st := tb.GetMipLevelImage(1); st != StatusInvalidMipLevel {
		t.Errorf("GetMipLevelImage(1) = %v, want StatusInvalidMipLevel", st)
	}
	floatBuf := newTestBuffer(t, 2, 2, texel.RG32F, 1)
	if _, st := floatBuf.GetMipLevelImage(0); st != StatusError {
		t.Errorf("GetMipLevelImage() on RG32F = %v, want StatusError", st)
	}
}

func TestSaveLevelPNG(t *testing.T) {
	tb := newTestBuffer(t, 2, 2, texel.RGBA8, 1)
	if st := tb.SetData(make([]byte, 2*2*4), 0, 0, 0, 2, 2); st != StatusOK {
		t.Fatalf("SetData() = %v", st)
	}
	path := filepath.Join(t.TempDir(), "level0.png")
	if err := tb.SaveLevelPNG(0, path); err != nil {
		t.Fatalf("SaveLevelPNG() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() == 0 {
		t.Error("written PNG is empty")
	}

	if err := tb.SaveLevelPNG(5, filepath.Join(t.TempDir(), "bad.png")); err == nil {
		t.Error("SaveLevelPNG() on bad level succeeded, want error")
	}
}
