package field

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pinNow(t *testing.T, now time.Time) {
	t.Helper()
	original := Now
	Now = func() time.Time { return now }
	t.Cleanup(func() { Now = original })
}

func TestPhone(t *testing.T) {
	t.Run("valid ten digit values round trip", func(t *testing.T) {
		for _, raw := range []string{"0000000000", "0501234567", "9999999999"} {
			p, err := NewPhone(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, p.String())
			assert.Equal(t, raw, p.Value())
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		for _, raw := range []string{"123", "050123456", "05012345678", "050123456a", "+380501234", "050 123 45"} {
			_, err := NewPhone(raw)
			require.Error(t, err, raw)
			assert.True(t, errors.Is(err, ErrPhoneDigits), raw)
		}
	})

	t.Run("empty value is rejected as required", func(t *testing.T) {
		_, err := NewPhone("")
		assert.ErrorIs(t, err, ErrEmptyRequired)
	})

	t.Run("surrounding whitespace is not stripped", func(t *testing.T) {
		for _, raw := range []string{" 0501234567", "0501234567 ", " 0501234567\t"} {
			_, err := NewPhone(raw)
			assert.ErrorIs(t, err, ErrPhoneDigits, "%q", raw)
		}

		p, err := NewPhone("0501234567")
		require.NoError(t, err)
		assert.ErrorIs(t, p.Set(" 0670000000"), ErrPhoneDigits)
		assert.Equal(t, "0501234567", p.Value())
	})

	t.Run("failed set keeps the previous value", func(t *testing.T) {
		p, err := NewPhone("0501234567")
		require.NoError(t, err)

		err = p.Set("12345")
		require.Error(t, err)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "phone", vErr.Field)
		assert.Equal(t, "12345", vErr.Value)
		assert.Equal(t, "0501234567", p.Value())

		require.NoError(t, p.Set("0670000000"))
		assert.Equal(t, "0670000000", p.String())
	})
}

func TestName(t *testing.T) {
	n, err := NewName("  John  ")
	require.NoError(t, err)
	assert.Equal(t, "John", n.Value())
	assert.True(t, n.Required())

	_, err = NewName("   ")
	assert.ErrorIs(t, err, ErrEmptyRequired)

	err = n.Set("")
	assert.ErrorIs(t, err, ErrEmptyRequired)
	assert.Equal(t, "John", n.Value())
}

func TestBirthday(t *testing.T) {
	pinNow(t, time.Date(2024, time.June, 15, 18, 30, 0, 0, time.UTC))

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "unset when empty", input: "", want: ""},
		{name: "valid past date", input: "01.02.1990", want: "01.02.1990"},
		{name: "today is allowed", input: "15.06.2024", want: "15.06.2024"},
		{name: "tomorrow is in the future", input: "16.06.2024", wantErr: ErrDateInFuture},
		{name: "wrong separator", input: "01-02-1990", wantErr: ErrDateFormat},
		{name: "month out of range", input: "01.13.1990", wantErr: ErrDateFormat},
		{name: "iso layout", input: "1990-02-01", wantErr: ErrDateFormat},
		{name: "padded date", input: " 01.02.1990", wantErr: ErrDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBirthday(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.String())
			assert.Equal(t, tt.input != "", b.IsSet())
		})
	}

	t.Run("failed set keeps the previous date", func(t *testing.T) {
		b, err := NewBirthday("01.02.1990")
		require.NoError(t, err)
		assert.ErrorIs(t, b.Set("31.12.2099"), ErrDateInFuture)
		assert.Equal(t, "01.02.1990", b.String())
	})
}

func TestEmail(t *testing.T) {
	valid := []string{"john@example.com", "john.doe@mail.example.org", "j_d@ex-ample.info", "a@b.io"}
	for _, raw := range valid {
		e, err := NewEmail(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, e.String())
	}

	invalid := []string{"john", "john@", "@example.com", "john@example", "john@example.technology", "jo hn@example.com", "john@exa_mple.com"}
	for _, raw := range invalid {
		_, err := NewEmail(raw)
		assert.ErrorIs(t, err, ErrEmailFormat, raw)
	}

	_, err := NewEmail(" john@example.com")
	assert.ErrorIs(t, err, ErrEmailFormat)

	e, err := NewEmail("")
	require.NoError(t, err)
	assert.False(t, e.IsSet())
	assert.Equal(t, "", e.String())
}

func TestText(t *testing.T) {
	_, err := NewText("")
	assert.ErrorIs(t, err, ErrEmptyRequired)

	txt, err := NewText("buy milk")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", txt.String())
}

func TestValidationErrorMessage(t *testing.T) {
	_, err := NewPhone("12")
	assert.EqualError(t, err, `phone "12": must be 10 digits`)

	_, err = NewName("")
	assert.EqualError(t, err, "name: empty required field")
}
