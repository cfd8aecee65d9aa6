package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)

	ts, err = NewTimeStringFromString("18:00:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("18:00"), ts)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = NewTimeStringFromString("9am")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestTimeString_AddMinutes(t *testing.T) {
	end, err := TimeString("09:30").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:00"), end)

	end, err = TimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), end)
	assert.True(t, TimeString("23:59").IsBefore(end))

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("20:00").IsAfter("19:59"))
	assert.True(t, TimeString("10:00").Equal("10:00"))
	assert.Equal(t, 570, TimeString("09:30").Minutes())
	assert.Equal(t, -1, TimeString("bad").Minutes())
}

func TestTimeString_Validate(t *testing.T) {
	assert.NoError(t, TimeString("00:00").Validate())
	assert.Error(t, TimeString("9:00").Validate())
	assert.Error(t, TimeString("").Validate())
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	moment := TimeString("14:30").On(date)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, loc), moment)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("10:30:00")))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_EndOfDay(t *testing.T) {
	assert.NoError(t, EndOfDay.ValidateEnd())
	assert.Error(t, EndOfDay.Validate())
	assert.Error(t, TimeString("24:30").ValidateEnd())
	assert.Equal(t, 1440, EndOfDay.EndMinutes())
	assert.Equal(t, -1, EndOfDay.Minutes())
	assert.Equal(t, 600, TimeString("10:00").EndMinutes())

	var ts TimeString
	require.NoError(t, ts.Scan("24:00:00"))
	assert.Equal(t, EndOfDay, ts)
	assert.True(t, TimeString("23:30").IsBefore(ts))
}
