package room

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_CombinesDateAndShowtime(t *testing.T) {
	req := require.New(t)

	key := DeriveKey("M1", "2025-06-10T18:30:00.000Z", "2025-06-10", "DubaiMall")
	req.Equal("M1_2025-06-10T18:30:00.000Z_DubaiMall", key)
}

func TestDeriveKey_DateOverridesCalendarDay(t *testing.T) {
	req := require.New(t)

	// The showtime carries a different day plus seconds; the derived
	// instant takes the date's day and zeroes everything below minutes.
	key := DeriveKey("M1", "2025-06-10T18:30:45.123Z", "2025-06-11", "DubaiMall")
	req.Equal("M1_2025-06-11T18:30:00.000Z_DubaiMall", key)
}

func TestDeriveKey_NormalisesOffsetsToUTC(t *testing.T) {
	req := require.New(t)

	// 18:30 at +04:00 is 14:30 UTC.
	key := DeriveKey("M1", "2025-06-11T18:30:00+04:00", "2025-06-11", "DubaiMall")
	req.Equal("M1_2025-06-11T14:30:00.000Z_DubaiMall", key)
}

func TestDeriveKey_NoDateUsesShowtimeVerbatim(t *testing.T) {
	req := require.New(t)

	key := DeriveKey("M1", "2025-06-10T18:30:00.000Z", "", "DubaiMall")
	req.Equal("M1_2025-06-10T18:30:00.000Z_DubaiMall", key)

	// Even an unparseable showtime passes through untouched when there is
	// no date to combine with: bucketing stays stable.
	key = DeriveKey("M1", "whenever", "", "DubaiMall")
	req.Equal("M1_whenever_DubaiMall", key)
}

func TestDeriveKey_MalformedInputsYieldStableSentinel(t *testing.T) {
	req := require.New(t)

	first := DeriveKey("M1", "6:30 pm", "not-a-date", "DubaiMall")
	second := DeriveKey("M1", "6:30 pm", "not-a-date", "DubaiMall")
	req.Equal("M1_invalid-date_DubaiMall", first)
	req.Equal(first, second)

	// A good date with a bad showtime degrades the same way.
	req.Equal("M1_invalid-date_DubaiMall", DeriveKey("M1", "6:30 pm", "2025-06-10", "DubaiMall"))
}

func TestDeriveKey_Deterministic(t *testing.T) {
	req := require.New(t)

	a := DeriveKey("M1", "2025-06-10T18:30:00.000Z", "2025-06-10", "DubaiMall")
	b := DeriveKey("M1", "2025-06-10T18:30:00.000Z", "2025-06-10", "DubaiMall")
	req.Equal(a, b)

	// Different location, different room.
	c := DeriveKey("M1", "2025-06-10T18:30:00.000Z", "2025-06-10", "MarinaMall")
	req.NotEqual(a, c)
}
