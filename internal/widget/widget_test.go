package widget

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/statusclock/civil"
	"github.com/ngrash/statusclock/internal/clock"
	"github.com/ngrash/statusclock/internal/config"
	"github.com/ngrash/statusclock/tzif"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// writeZone writes a version 1 zone that switches to +02:00 DST at 1000 and
// back to +01:00 at 2000.
func writeZone(t *testing.T, order binary.ByteOrder) string {
	t.Helper()
	h := tzif.Header{Version: tzif.V1, Timecnt: 2, Typecnt: 3, Charcnt: 1}
	b := tzif.DataBlock{
		TransitionTimes:      []int64{1000, 2000},
		TransitionTypes:      []uint8{1, 0},
		LocalTimeTypes:       []tzif.LocalTimeType{{Utoff: 3600}, {Utoff: 7200, Dst: 1}, {Utoff: 3208}},
		TimeZoneDesignations: []byte{0},
		LeapSeconds:          []tzif.LeapSecond{{}, {}, {}},
	}
	var buf bytes.Buffer
	f := tzif.File{Version: tzif.V1, V1Header: h, V1Data: b}
	require.NoError(t, f.Encode(&buf, order))
	path := filepath.Join(t.TempDir(), "zone")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func timeConfig(path string) config.TimeConfig {
	cfg := config.Default().Time
	cfg.File = path
	cfg.ByteOrder = "big"
	cfg.FallbackOffset = -60
	return cfg
}

func TestNewTime_SelectsOffset(t *testing.T) {
	path := writeZone(t, binary.BigEndian)
	cases := []struct {
		now  int64
		want int64
	}{
		{500, 3600},
		{1500, 7200},
		{2500, 3600},
	}
	for _, c := range cases {
		w := NewTime(timeConfig(path), "#FFFFFF", clock.Fixed(c.now), testLogger())
		assert.Equal(t, c.want, w.Offset(), "now=%d", c.now)
	}
}

func TestNewTime_LittleEndian(t *testing.T) {
	cfg := timeConfig(writeZone(t, binary.LittleEndian))
	cfg.ByteOrder = "little"
	w := NewTime(cfg, "", clock.Fixed(1500), testLogger())
	assert.Equal(t, int64(7200), w.Offset())

	// The same file read with the wrong byte order cannot be decoded.
	cfg.ByteOrder = "big"
	w = NewTime(cfg, "", clock.Fixed(1500), testLogger())
	assert.Equal(t, int64(-60), w.Offset())
}

func TestNewTime_FixedOffset(t *testing.T) {
	cfg := timeConfig(writeZone(t, binary.BigEndian))
	cfg.SelectOffset = false
	w := NewTime(cfg, "", clock.Fixed(1500), testLogger())
	assert.Equal(t, int64(-60), w.Offset())
}

func TestNewTime_Fallback(t *testing.T) {
	dir := t.TempDir()
	badMagic := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(badMagic, []byte("TZjf\x00 not a zone file at all, but long enough"), 0o644))
	truncated := filepath.Join(dir, "short")
	require.NoError(t, os.WriteFile(truncated, []byte("TZif\x00"), 0o644))

	for _, path := range []string{filepath.Join(dir, "missing"), badMagic, truncated} {
		w := NewTime(timeConfig(path), "", clock.Fixed(0), testLogger())
		assert.Equal(t, int64(-60), w.Offset(), path)
	}
}

// writeZicZone writes a version 2 zone laid out the way zic writes it:
// leapcnt is zero, so no leap second records follow the designations.
func writeZicZone(t *testing.T) string {
	t.Helper()
	b := tzif.DataBlock{
		TransitionTimes:        []int64{1000},
		TransitionTypes:        []uint8{1},
		LocalTimeTypes:         []tzif.LocalTimeType{{Utoff: 3600}, {Utoff: 7200, Dst: 1, Idx: 4}},
		TimeZoneDesignations:   []byte("CET\x00CST\x00"),
		StandardWallIndicators: []uint8{0, 0},
		UTLocalIndicators:      []uint8{0, 0},
	}
	h := tzif.Header{Version: tzif.V2, Isutcnt: 2, Isstdcnt: 2, Timecnt: 1, Typecnt: 2, Charcnt: 8}
	f := tzif.File{
		Version:  tzif.V2,
		V1Header: h,
		V1Data:   b,
		Header:   h,
		Data:     b,
		Footer:   tzif.Footer{TZString: []byte("CET-1CEST,M3.5.0,M10.5.0/3")},
	}
	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf, binary.BigEndian))
	path := filepath.Join(t.TempDir(), "Berlin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestNewTime_ZicOutputFallsBack(t *testing.T) {
	path := writeZicZone(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Reading typecnt leap records runs into the second header.
	_, _, err = tzif.Decode(data, binary.BigEndian)
	assert.ErrorIs(t, err, tzif.ErrBadMagic)
	_, _, err = tzif.Decode(data, binary.LittleEndian)
	assert.ErrorIs(t, err, tzif.ErrBufferUnderrun)

	assert.Equal(t, "little", config.Default().Time.ByteOrder)
	for _, order := range []string{"", "little", "big"} {
		cfg := config.Default().Time
		cfg.File = path
		cfg.FallbackOffset = 5400
		if order != "" {
			cfg.ByteOrder = order
		}
		w := NewTime(cfg, "", clock.Fixed(1500), testLogger())
		assert.Equal(t, int64(5400), w.Offset(), "byte order %q", order)
	}
}

func TestNewTime_ClockFailure(t *testing.T) {
	src := clock.Func(func() (int64, error) { return 0, errors.New("no clock") })
	w := NewTime(timeConfig(writeZone(t, binary.BigEndian)), "", src, testLogger())
	assert.Equal(t, int64(-60), w.Offset())
}

func TestFallbackReason(t *testing.T) {
	assert.Equal(t, "read", fallbackReason(os.ErrNotExist))
	assert.Equal(t, "bad_magic", fallbackReason(tzif.ErrBadMagic))
	assert.Equal(t, "bad_version", fallbackReason(tzif.ErrBadVersion))
	assert.Equal(t, "underrun", fallbackReason(&tzif.UnderrunError{}))
	assert.Equal(t, "lookup", fallbackReason(tzif.ErrUnaligned))
	assert.Equal(t, "clock", fallbackReason(errClock))
	assert.Equal(t, "other", fallbackReason(errors.New("x")))
}

func TestTime_UpdateAndValue(t *testing.T) {
	path := writeZone(t, binary.BigEndian)
	w := NewTime(timeConfig(path), "#FFFFFF", clock.Fixed(500), testLogger())
	require.NoError(t, w.Update(context.Background()))
	assert.Equal(t, "01.01.1970 01:08:20", w.Text())

	raw, err := w.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"time","full_text":"01.01.1970 01:08:20","color":"#FFFFFF","tz_offset":3600}`, string(raw))
}

func TestTime_UpdateKeepsTextOnFailure(t *testing.T) {
	now := int64(100)
	src := clock.Func(func() (int64, error) { return now, nil })
	cfg := timeConfig("/nonexistent")
	w := NewTime(cfg, "", src, testLogger())
	require.NoError(t, w.Update(context.Background()))
	assert.Equal(t, "01.01.1970 00:00:40", w.Text())

	// 30 seconds plus a -60 second offset is before 1970.
	now = 30
	err := w.Update(context.Background())
	assert.ErrorIs(t, err, civil.ErrNegativeEpoch)
	assert.Equal(t, "01.01.1970 00:00:40", w.Text())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Update(ctx), context.Canceled)
}

func TestTime_SerializationError(t *testing.T) {
	marshal = func(any) ([]byte, error) { return nil, errors.New("boom") }
	defer func() { marshal = json.Marshal }()

	w := NewTime(timeConfig("/nonexistent"), "", clock.Fixed(0), testLogger())
	_, err := w.Value()
	var serr *SerializationError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "time", serr.Widget)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capacity")
	require.NoError(t, os.WriteFile(path, []byte("87\nignored\n"), 0o644))

	w := NewFile(config.FileConfig{Name: "battery", Path: path}, "#00FF00")
	assert.Equal(t, "battery", w.Name())

	_, err := w.Value()
	assert.Error(t, err, "value before first update")

	require.NoError(t, w.Update(context.Background()))
	raw, err := w.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"battery","full_text":"87","color":"#00FF00"}`, string(raw))

	require.NoError(t, os.Remove(path))
	assert.ErrorIs(t, w.Update(context.Background()), os.ErrNotExist)
	_, err = w.Value()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_NoTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp")
	require.NoError(t, os.WriteFile(path, []byte("42000"), 0o644))
	w := NewFile(config.FileConfig{Name: "temp", Path: path}, "")
	require.NoError(t, w.Update(context.Background()))
	raw, err := w.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"temp","full_text":"42000"}`, string(raw))
}
