package hashkind

import "testing"

func TestKindStringRoundtrip(t *testing.T) {
	for _, k := range []Kind{Ident, Sip, Murmur3_32, Murmur3_64, Murmur3_128} {
		name := k.String()
		if name == "<undef>" {
			t.Fatalf("Kind(%d).String() returned <undef>", k)
		}
		got, ok := Parse(name)
		if !ok || got != k {
			t.Fatalf("Parse(%q) = %v, %v; want %v, true", name, got, ok, k)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, ok := Parse("NOT_A_HASH"); ok {
		t.Fatal("Parse of an unknown name should return ok=false")
	}
}

func TestKindWidth(t *testing.T) {
	cases := map[Kind]int{
		Ident:       32,
		Sip:         64,
		Murmur3_32:  32,
		Murmur3_64:  64,
		Murmur3_128: 128,
	}
	for k, want := range cases {
		if got := k.Width(); got != want {
			t.Errorf("%v.Width() = %d, want %d", k, got, want)
		}
	}
}

func TestHash128ClzZero(t *testing.T) {
	var h Hash128
	if got := h.Clz(); got != 128 {
		t.Fatalf("Clz of zero Hash128 = %d, want 128", got)
	}
}

func TestHash128ClzHighLimbWins(t *testing.T) {
	h := Hash128{Lo: ^uint64(0), Hi: 1}
	if got := h.Clz(); got != 63 {
		t.Fatalf("Clz = %d, want 63 (leading zeros of Hi=1, ignoring all-ones Lo)", got)
	}
}

func TestHash128ClzFallsBackToLow(t *testing.T) {
	h := Hash128{Lo: 1, Hi: 0}
	if got := h.Clz(); got != 127 {
		t.Fatalf("Clz = %d, want 127", got)
	}
}

func TestHashIdentIsPassthrough(t *testing.T) {
	h := Hash(Ident, 0xCAFEBABE)
	if h.Lo != 0xCAFEBABE || h.Hi != 0 {
		t.Fatalf("Hash(Ident, key) = %+v, want Lo=key, Hi=0", h)
	}
}

func TestHashDeterministic(t *testing.T) {
	for _, k := range []Kind{Sip, Murmur3_32, Murmur3_64, Murmur3_128} {
		a := Hash(k, 12345)
		b := Hash(k, 12345)
		if a != b {
			t.Fatalf("%v: Hash not deterministic: %+v != %+v", k, a, b)
		}
	}
}

func TestHashNarrowerKindsLeaveHiZero(t *testing.T) {
	if h := Hash(Murmur3_32, 1); h.Hi != 0 {
		t.Fatalf("Murmur3_32 populated Hi: %+v", h)
	}
	if h := Hash(Sip, 1); h.Hi != 0 {
		t.Fatalf("Sip populated Hi: %+v", h)
	}
	if h := Hash(Murmur3_64, 1); h.Hi != 0 {
		t.Fatalf("Murmur3_64 populated Hi: %+v", h)
	}
}
