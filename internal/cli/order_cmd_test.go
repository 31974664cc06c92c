package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveryArgs() []string {
	return []string{
		"--name", "Wanjiku Kamau",
		"--email", "wanjiku@example.com",
		"--phone", "+254700111222",
		"--address", "12 Kimathi Street",
		"--city", "Nairobi",
		"--postal", "00100",
	}
}

func TestOrderCommand_CardReceipt(t *testing.T) {
	args := append([]string{"order", "--item", "14:2", "--item", "23:1", "--delay", "5ms"}, deliveryArgs()...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	assert.Contains(t, out, "Thank you for your order")
	assert.Contains(t, out, "#QK")
	assert.Contains(t, out, "Pilau")
	assert.Contains(t, out, "Soda")
	assert.Contains(t, out, "Total")
}

func TestOrderCommand_MobileMoney(t *testing.T) {
	args := append([]string{
		"order", "--item", "8:3", "--delay", "5ms",
		"--method", "mpesa", "--code", "QK77ABC",
	}, deliveryArgs()...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	assert.Contains(t, out, "Payment: mpesa")
	assert.Contains(t, out, "Samosa")
}

func TestOrderCommand_UnknownItem(t *testing.T) {
	args := append([]string{"order", "--item", "999:1", "--delay", "5ms"}, deliveryArgs()...)
	_, err := execute(t, args...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestOrderCommand_MissingDelivery(t *testing.T) {
	_, err := execute(t, "order", "--item", "14:1", "--delay", "5ms")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestOrderCommand_BadItemSpec(t *testing.T) {
	args := append([]string{"order", "--item", "14:two", "--delay", "5ms"}, deliveryArgs()...)
	_, err := execute(t, args...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestParseItemSpec(t *testing.T) {
	tests := []struct {
		spec    string
		id      string
		qty     int
		wantErr bool
	}{
		{spec: "14:2", id: "14", qty: 2},
		{spec: "14", id: "14", qty: 1},
		{spec: "14:zero", wantErr: true},
		{spec: ":3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			id, qty, err := parseItemSpec(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.qty, qty)
		})
	}
}
