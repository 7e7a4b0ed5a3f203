package exif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	ibinary "github.com/simonhull/jpegcaption/internal/binary"
	"github.com/simonhull/jpegcaption/internal/jpegtest"
	"github.com/simonhull/jpegcaption/internal/types"
)

var orders = []struct {
	order binary.ByteOrder
	name  string
}{
	{binary.BigEndian, "MM"},
	{binary.LittleEndian, "II"},
}

func mustCaption(t *testing.T, payload []byte) string {
	t.Helper()
	value, ok, err := ReadTag(payload, TagImageDescription)
	if err != nil {
		t.Fatalf("ReadTag failed: %v", err)
	}
	if !ok {
		t.Fatal("ImageDescription not found")
	}
	return DecodeASCII(value)
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestReadTag(t *testing.T) {
	for _, o := range orders {
		t.Run(o.name, func(t *testing.T) {
			payload := jpegtest.Exif(o.order,
				jpegtest.Short(tagOrientation, 6, o.order),
				jpegtest.ASCII(tagMake, "abc"),
				jpegtest.ASCII(TagImageDescription, "harbour at dusk"),
			)

			tests := []struct {
				name string
				tag  uint16
				want []byte
				ok   bool
			}{
				{"out of line", TagImageDescription, []byte("harbour at dusk\x00"), true},
				{"inline ascii", tagMake, []byte("abc\x00"), true},
				{"inline short", tagOrientation, jpegtest.Short(0, 6, o.order).Value, true},
				{"absent", 0x8298, nil, false},
			}

			for _, tt := range tests {
				got, ok, err := ReadTag(payload, tt.tag)
				if err != nil {
					t.Fatalf("%s: ReadTag failed: %v", tt.name, err)
				}
				if ok != tt.ok {
					t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
				}
				if !bytes.Equal(got, tt.want) {
					t.Errorf("%s: value = %q, want %q", tt.name, got, tt.want)
				}
			}
		})
	}
}

func TestReadTag_FirstMatchWins(t *testing.T) {
	payload := jpegtest.Exif(binary.BigEndian,
		jpegtest.ASCII(TagImageDescription, "first caption"),
		jpegtest.ASCII(TagImageDescription, "second caption"),
	)

	if got := mustCaption(t, payload); got != "first caption" {
		t.Errorf("caption = %q, want %q", got, "first caption")
	}
}

func TestReadTag_ReturnsCopy(t *testing.T) {
	payload := jpegtest.Exif(binary.BigEndian, jpegtest.ASCII(TagImageDescription, "do not touch"))
	original := bytes.Clone(payload)

	value, _, err := ReadTag(payload, TagImageDescription)
	if err != nil {
		t.Fatal(err)
	}
	clear(value)

	if !bytes.Equal(payload, original) {
		t.Error("ReadTag result aliases the payload")
	}
}

func TestWriteTag_Strategies(t *testing.T) {
	tests := []struct {
		name     string
		fields   func(binary.ByteOrder) []jpegtest.Field
		caption  string
		strategy Strategy
		delta    int // payload growth; -1 skips the check
	}{
		{
			name: "inline to inline",
			fields: func(binary.ByteOrder) []jpegtest.Field {
				return []jpegtest.Field{jpegtest.ASCII(TagImageDescription, "abc")}
			},
			caption:  "xy",
			strategy: StrategyInline,
		},
		{
			name: "empty caption",
			fields: func(binary.ByteOrder) []jpegtest.Field {
				return []jpegtest.Field{jpegtest.ASCII(TagImageDescription, "a long caption")}
			},
			caption:  "",
			strategy: StrategyInline,
		},
		{
			name: "shrink in place",
			fields: func(binary.ByteOrder) []jpegtest.Field {
				return []jpegtest.Field{
					jpegtest.ASCII(TagImageDescription, "a long caption"),
					jpegtest.ASCII(tagMake, "Camera Maker"),
				}
			},
			caption:  "short one",
			strategy: StrategyInPlace,
		},
		{
			name: "same length in place",
			fields: func(binary.ByteOrder) []jpegtest.Field {
				return []jpegtest.Field{
					jpegtest.ASCII(TagImageDescription, "caption one"),
					jpegtest.ASCII(tagMake, "Camera Maker"),
				}
			},
			caption:  "caption two",
			strategy: StrategyInPlace,
		},
		{
			name: "grow at end of data",
			fields: func(binary.ByteOrder) []jpegtest.Field {
				return []jpegtest.Field{
					jpegtest.ASCII(tagMake, "Camera Maker"),
					jpegtest.ASCII(TagImageDescription, "old caption"),
				}
			},
			caption:  "new-caption-text",
			strategy: StrategyResize,
			delta:    len("new-caption-text") - len("old caption"),
		},
		{
			name: "grow with data behind",
			fields: func(binary.ByteOrder) []jpegtest.Field {
				return []jpegtest.Field{
					jpegtest.ASCII(TagImageDescription, "first description"),
					jpegtest.ASCII(tagMake, "Camera Maker"),
				}
			},
			caption:  "a much longer description than before",
			strategy: StrategyAppend,
			// data ends at offset 69; one pad byte then 38 value bytes
			delta: 39,
		},
		{
			name: "inline grows out of line",
			fields: func(binary.ByteOrder) []jpegtest.Field {
				return []jpegtest.Field{jpegtest.ASCII(TagImageDescription, "old")}
			},
			caption:  "new-caption-text",
			strategy: StrategyAppend,
			delta:    len("new-caption-text") + 1,
		},
		{
			name: "absent",
			fields: func(o binary.ByteOrder) []jpegtest.Field {
				return []jpegtest.Field{
					jpegtest.Short(tagOrientation, 1, o),
					jpegtest.ASCII(tagMake, "Camera Maker"),
				}
			},
			caption:  "inserted caption",
			strategy: StrategyInsert,
			delta:    -1,
		},
		{
			name: "absent and short",
			fields: func(o binary.ByteOrder) []jpegtest.Field {
				return []jpegtest.Field{jpegtest.Short(tagOrientation, 1, o)}
			},
			caption:  "ab",
			strategy: StrategyInsert,
			delta:    -1,
		},
	}

	for _, o := range orders {
		for _, tt := range tests {
			t.Run(o.name+"/"+tt.name, func(t *testing.T) {
				fields := tt.fields(o.order)
				payload := jpegtest.Exif(o.order, fields...)
				original := bytes.Clone(payload)

				value, err := EncodeASCII(tt.caption)
				if err != nil {
					t.Fatal(err)
				}

				out, strategy, err := WriteTag(payload, TagImageDescription, value)
				if err != nil {
					t.Fatalf("WriteTag failed: %v", err)
				}

				if strategy != tt.strategy {
					t.Errorf("strategy = %s, want %s", strategy, tt.strategy)
				}
				if !bytes.Equal(payload, original) {
					t.Error("WriteTag modified its input")
				}
				if tt.delta >= 0 && len(out)-len(payload) != tt.delta {
					t.Errorf("payload grew by %d, want %d", len(out)-len(payload), tt.delta)
				}
				if got := mustCaption(t, out); got != tt.caption {
					t.Errorf("caption = %q, want %q", got, tt.caption)
				}

				dir, err := Parse(out)
				if err != nil {
					t.Fatalf("Parse(out) failed: %v", err)
				}
				i, _ := dir.Find(TagImageDescription)
				if e := dir.Entries[i]; e.Type != ASCII || e.Count != uint32(len(value)) {
					t.Errorf("entry = %+v, want ASCII with count %d", e, len(value))
				}

				for _, f := range fields {
					if f.Tag == TagImageDescription {
						continue
					}
					got, ok, err := ReadTag(out, f.Tag)
					if err != nil || !ok {
						t.Fatalf("ReadTag(0x%04X) = %v, %v", f.Tag, ok, err)
					}
					if !bytes.Equal(got, f.Value) {
						t.Errorf("tag 0x%04X = %q, want %q", f.Tag, got, f.Value)
					}
				}
			})
		}
	}
}

func TestWriteTag_ClearsReplacedValue(t *testing.T) {
	tests := []struct {
		name    string
		caption string
	}{
		{"moved inline", "ok"},
		{"moved to end", "a caption that no longer fits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := jpegtest.Exif(binary.BigEndian,
				jpegtest.ASCII(TagImageDescription, "a long caption"),
				jpegtest.ASCII(tagMake, "Camera Maker"),
			)
			value, _ := EncodeASCII(tt.caption)

			out, _, err := WriteTag(payload, TagImageDescription, value)
			if err != nil {
				t.Fatal(err)
			}

			// identifier (6) + first data offset (38), 15 bytes
			if old := out[6+38 : 6+38+15]; !isZero(old) {
				t.Errorf("old value not cleared: %q", old)
			}
		})
	}
}

func TestWriteTag_ZeroPadsInPlace(t *testing.T) {
	payload := jpegtest.Exif(binary.BigEndian,
		jpegtest.ASCII(TagImageDescription, "a long caption"),
		jpegtest.ASCII(tagMake, "Camera Maker"),
	)
	value, _ := EncodeASCII("short")

	out, _, err := WriteTag(payload, TagImageDescription, value)
	if err != nil {
		t.Fatal(err)
	}

	region := out[6+38 : 6+38+15]
	if !bytes.Equal(region[:6], value) {
		t.Errorf("value = %q, want %q", region[:6], value)
	}
	if !isZero(region[6:]) {
		t.Errorf("tail not zero-padded: %q", region[6:])
	}
}

func TestWriteTag_InsertRelocatesDirectory(t *testing.T) {
	for _, o := range orders {
		t.Run(o.name, func(t *testing.T) {
			payload := jpegtest.ExifWithNext(o.order, 0x1234,
				jpegtest.Short(tagOrientation, 1, o.order),
				jpegtest.ASCII(tagMake, "Camera Maker"),
			)
			before, err := Parse(payload)
			if err != nil {
				t.Fatal(err)
			}

			value, _ := EncodeASCII("inserted caption")
			out, _, err := WriteTag(payload, TagImageDescription, value)
			if err != nil {
				t.Fatalf("WriteTag failed: %v", err)
			}

			after, err := Parse(out)
			if err != nil {
				t.Fatalf("Parse(out) failed: %v", err)
			}

			// Make ends at 51; value lands at 52, the table at 70.
			if after.Offset != 70 {
				t.Errorf("IFD0 offset = %d, want 70", after.Offset)
			}
			if len(after.Entries) != len(before.Entries)+1 {
				t.Fatalf("got %d entries, want %d", len(after.Entries), len(before.Entries)+1)
			}
			for i, e := range before.Entries {
				got := after.Entries[i]
				if got.Tag != e.Tag || got.Type != e.Type || got.Count != e.Count || got.ValueOffset != e.ValueOffset {
					t.Errorf("entry %d = %+v, want %+v", i, got, e)
				}
			}
			if last := after.Entries[len(after.Entries)-1]; last.Tag != TagImageDescription || last.ValueOffset != 52 {
				t.Errorf("new entry = %+v", last)
			}
			if after.Next != 0x1234 {
				t.Errorf("Next = 0x%X, want 0x1234", after.Next)
			}

			// The retired table (offset 8 up to the first value) is cleared.
			if !isZero(out[6+8 : 6+38]) {
				t.Error("old IFD0 table not cleared")
			}
		})
	}
}

func TestWriteTag_FirstMatchWins(t *testing.T) {
	payload := jpegtest.Exif(binary.BigEndian,
		jpegtest.ASCII(TagImageDescription, "first caption"),
		jpegtest.ASCII(TagImageDescription, "second caption"),
	)
	value, _ := EncodeASCII("replacement text")

	out, _, err := WriteTag(payload, TagImageDescription, value)
	if err != nil {
		t.Fatal(err)
	}

	if got := mustCaption(t, out); got != "replacement text" {
		t.Errorf("caption = %q", got)
	}

	dir, err := Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	second := dir.Entries[1]
	// "first caption\0" occupies 38..52
	if second.ValueOffset != 52 || second.Count != 15 {
		t.Fatalf("second entry changed: %+v", second)
	}
	if got := out[6+52 : 6+52+15]; !bytes.Equal(got, []byte("second caption\x00")) {
		t.Errorf("second value = %q", got)
	}
}

func TestWriteTag_Idempotent(t *testing.T) {
	tests := []struct {
		name   string
		fields []jpegtest.Field
	}{
		{"existing", []jpegtest.Field{jpegtest.ASCII(TagImageDescription, "old")}},
		{"absent", []jpegtest.Field{jpegtest.ASCII(tagMake, "Camera Maker")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := jpegtest.Exif(binary.LittleEndian, tt.fields...)
			value, _ := EncodeASCII("the same caption twice")

			once, _, err := WriteTag(payload, TagImageDescription, value)
			if err != nil {
				t.Fatal(err)
			}
			twice, strategy, err := WriteTag(once, TagImageDescription, value)
			if err != nil {
				t.Fatal(err)
			}

			if strategy != StrategyInPlace {
				t.Errorf("second write strategy = %s, want %s", strategy, StrategyInPlace)
			}
			if !bytes.Equal(once, twice) {
				t.Error("second write changed the payload")
			}
		})
	}
}

func TestWriteTag_InvalidPayload(t *testing.T) {
	payload := jpegtest.Exif(binary.BigEndian,
		jpegtest.Field{Tag: 0x9999, Type: 0, Count: 1, Value: []byte{1}},
	)

	out, _, err := WriteTag(payload, TagImageDescription, []byte("x\x00"))
	if out != nil {
		t.Error("expected no output on error")
	}
	var unsupported *types.UnsupportedFieldTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedFieldTypeError, got %T: %v", err, err)
	}
}

func TestWriteTag_RejectsOverlappingStructure(t *testing.T) {
	// Two entries: the table spans 8..38, the description value starts at 38.
	valid := jpegtest.Exif(binary.BigEndian,
		jpegtest.ASCII(TagImageDescription, "a long caption"),
		jpegtest.ASCII(tagMake, "Camera Maker"),
	)
	patch := func(at int, v uint32) []byte {
		p := bytes.Clone(valid)
		binary.BigEndian.PutUint32(p[6+at:], v)
		return p
	}
	withNext := func(next uint32) []byte {
		return jpegtest.ExifWithNext(binary.BigEndian, next, jpegtest.ASCII(TagImageDescription, "a long caption"))
	}

	tests := []struct {
		name    string
		payload []byte
	}{
		// description value slot: header (8) + count (2) + 8
		{"value inside IFD0 table", patch(18, 0x0A)},
		{"value runs into IFD0 table", patch(18, 30)},
		{"value inside TIFF header", patch(18, 4)},
		{"IFD0 offset inside header", patch(4, 4)},
		{"IFD0 offset zero", patch(4, 0)},
		{"next IFD inside IFD0 table", withNext(12)},
		{"next IFD inside header", withNext(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := bytes.Clone(tt.payload)

			out, _, err := WriteTag(tt.payload, TagImageDescription, []byte("replacement\x00"))
			if out != nil {
				t.Error("expected no output on error")
			}
			var malformed *types.MalformedImageError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected *MalformedImageError, got %T: %v", err, err)
			}
			if !bytes.Equal(tt.payload, original) {
				t.Error("WriteTag modified its input")
			}

			if _, _, err := ReadTag(tt.payload, TagImageDescription); !errors.As(err, &malformed) {
				t.Errorf("ReadTag error = %v, want *MalformedImageError", err)
			}
		})
	}
}

func TestWriteTag_SharedValueKept(t *testing.T) {
	tests := []struct {
		name     string
		caption  string
		strategy Strategy
	}{
		{"shorter", "short", StrategyAppend},
		{"inline", "ok", StrategyInline},
		{"longer", "a caption that no longer fits", StrategyAppend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := jpegtest.Exif(binary.BigEndian,
				jpegtest.ASCII(TagImageDescription, "shared caption"),
				jpegtest.ASCII(TagImageDescription, "other caption x"),
			)
			// Point the duplicate at the first value: count at 26, slot at 30.
			binary.BigEndian.PutUint32(payload[6+26:], 15)
			binary.BigEndian.PutUint32(payload[6+30:], 38)

			value, _ := EncodeASCII(tt.caption)
			out, strategy, err := WriteTag(payload, TagImageDescription, value)
			if err != nil {
				t.Fatalf("WriteTag failed: %v", err)
			}

			if strategy != tt.strategy {
				t.Errorf("strategy = %s, want %s", strategy, tt.strategy)
			}
			if got := mustCaption(t, out); got != tt.caption {
				t.Errorf("caption = %q, want %q", got, tt.caption)
			}
			if got := out[6+38 : 6+38+15]; !bytes.Equal(got, []byte("shared caption\x00")) {
				t.Errorf("duplicate's value = %q", got)
			}
		})
	}
}

func TestWriteTag_FullDirectory(t *testing.T) {
	fields := make([]jpegtest.Field, 0xFFFF)
	for i := range fields {
		fields[i] = jpegtest.Short(tagOrientation, 1, binary.BigEndian)
	}
	payload := jpegtest.Exif(binary.BigEndian, fields...)

	out, _, err := WriteTag(payload, TagImageDescription, []byte("x\x00"))
	if out != nil {
		t.Error("expected no output on error")
	}
	var malformed *types.MalformedImageError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *MalformedImageError, got %T: %v", err, err)
	}
	if malformed.Offset != 8 {
		t.Errorf("Offset = %d, want 8", malformed.Offset)
	}
}

func TestNewPayload(t *testing.T) {
	tests := []struct {
		order   ibinary.Endianness
		std     binary.ByteOrder
		name    string
		caption string
	}{
		{ibinary.BigEndian, binary.BigEndian, "MM/out of line", "harbour at dusk"},
		{ibinary.BigEndian, binary.BigEndian, "MM/inline", "abc"},
		{ibinary.LittleEndian, binary.LittleEndian, "II/out of line", "harbour at dusk"},
		{ibinary.LittleEndian, binary.LittleEndian, "II/empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := EncodeASCII(tt.caption)
			if err != nil {
				t.Fatal(err)
			}

			got := NewPayload(tt.order, TagImageDescription, value)
			want := jpegtest.Exif(tt.std, jpegtest.ASCII(TagImageDescription, tt.caption))
			if !bytes.Equal(got, want) {
				t.Errorf("NewPayload =\n% X\nwant\n% X", got, want)
			}
			if caption := mustCaption(t, got); caption != tt.caption {
				t.Errorf("caption = %q, want %q", caption, tt.caption)
			}
		})
	}
}

func TestEncodeASCII(t *testing.T) {
	tests := []struct {
		in      string
		want    []byte
		wantErr bool
	}{
		{"", []byte{0}, false},
		{"Sunset", []byte("Sunset\x00"), false},
		{"café", []byte("café\x00"), false},
		{"bad\x00caption", nil, true},
	}

	for _, tt := range tests {
		got, err := EncodeASCII(tt.in)
		if tt.wantErr {
			var invalid *types.InvalidCaptionError
			if !errors.As(err, &invalid) {
				t.Errorf("EncodeASCII(%q) error = %v, want *InvalidCaptionError", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("EncodeASCII(%q) failed: %v", tt.in, err)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("EncodeASCII(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeASCII(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{nil, ""},
		{[]byte{0}, ""},
		{[]byte("Sunset\x00"), "Sunset"},
		{[]byte("no terminator"), "no terminator"},
		{[]byte("first\x00second\x00"), "first"},
		{[]byte("ab\x00\x00"), "ab"},
	}

	for _, tt := range tests {
		if got := DecodeASCII(tt.in); got != tt.want {
			t.Errorf("DecodeASCII(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
