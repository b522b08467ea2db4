package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendabot/internal/domain"
)

// lunes 2 de junio de 2025, 09:00 UTC
var testNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func TestNormalizeDate_WeekdayScenario(t *testing.T) {
	// El clasificador devolvió un miércoles de 2024; el usuario dijo
	// "jueves" sin año: debe caer en el jueves futuro más cercano.
	got, _, err := NormalizeDate("2024-01-10T10:00:00Z", "agendame reunión el jueves 10:00", testNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.Thursday, got.Weekday())
}

func TestNormalizeDate_CollapsesInventedYear(t *testing.T) {
	got, _, err := NormalizeDate("2027-03-10T12:00:00Z", "reunión el 10 de marzo", testNow)
	require.NoError(t, err)

	assert.True(t, got.After(testNow))
	assert.LessOrEqual(t, got.Sub(testNow), yearWindow)
	assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), got)
}

func TestNormalizeDate_ExplicitYearIsRespected(t *testing.T) {
	got, shift, err := NormalizeDate("2027-03-10T12:00:00Z", "reunión el 10 de marzo de 2027", testNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2027, 3, 10, 12, 0, 0, 0, time.UTC), got)
	assert.Zero(t, shift)
}

func TestNormalizeDate_PastDateWithoutWeekdayAdvancesYears(t *testing.T) {
	got, shift, err := NormalizeDate("2025-01-15T09:30:00Z", "turno el 15 de enero", testNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC), got)
	assert.Equal(t, got.Sub(time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)), shift)
}

func TestNormalizeDate_FutureDateUnchanged(t *testing.T) {
	got, shift, err := NormalizeDate("2025-06-10T10:00:00Z", "reunión el martes 10 de junio", testNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC), got)
	assert.Zero(t, shift)
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	first, _, err := NormalizeDate("2024-01-10T10:00:00Z", "agendame reunión el jueves 10:00", testNow)
	require.NoError(t, err)

	second, shift, err := NormalizeDate(first.Format(time.RFC3339), "agendame reunión el jueves 10:00", testNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Zero(t, shift)
}

func TestNormalizeDate_AlwaysStrictlyFuture(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		text string
	}{
		{"pasado con día de semana", "2023-11-06T08:00:00Z", "recordame la reunión del lunes"},
		{"pasado sin señales", "2020-02-29T10:00:00Z", "agendá la cita"},
		{"muy adelante sin año", "2030-07-01T09:00:00Z", "turno el primero de julio"},
		{"mismo instante", "2025-06-02T09:00:00Z", "agendame algo"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := NormalizeDate(tc.raw, tc.text, testNow)
			require.NoError(t, err)
			assert.True(t, got.After(testNow), "resultado %s no es futuro", got)
		})
	}
}

func TestNormalizeDate_WeekdayPreserved(t *testing.T) {
	cases := []struct {
		text string
		want time.Weekday
	}{
		{"nos vemos el lunes", time.Monday},
		{"turno el miércoles a la tarde", time.Wednesday},
		{"recordame el sabado", time.Saturday},
		{"cita el Domingo", time.Sunday},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got, _, err := NormalizeDate("2024-01-10T10:00:00Z", tc.text, testNow)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Weekday())
			assert.True(t, got.After(testNow))
		})
	}
}

func TestNormalizeDate_DatesWithoutZoneUseLocalClock(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, loc)

	got, _, err := NormalizeDate("2025-08-14T16:00:00", "cita el 14 de agosto 16:00", now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 8, 14, 16, 0, 0, 0, loc), got)
}

func TestNormalizeDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "mañana", "14/08/2025"} {
		_, _, err := NormalizeDate(raw, "agendame algo", testNow)
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	}
}
