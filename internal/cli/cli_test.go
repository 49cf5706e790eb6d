package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/wildpay/internal/calculator"
	"github.com/mmynk/wildpay/internal/models"
)

const tripCSV = `title,amount,payer,contributors
Cabin,90,Alice,"Alice, Bob, Charlie"
Snacks,12.50,,"Alice,Bob"
`

func TestReadGroupCSV(t *testing.T) {
	group, err := ReadGroupCSV(strings.NewReader(tripCSV))
	require.NoError(t, err)

	assert.Equal(t, []models.Member{
		{ID: "Alice", DisplayName: "Alice"},
		{ID: "Bob", DisplayName: "Bob"},
		{ID: "Charlie", DisplayName: "Charlie"},
	}, group.Members)
	require.Len(t, group.Expenditures, 2)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, group.Expenditures[0].Contributors)
	assert.Equal(t, 12.5, group.Expenditures[1].Amount)
	assert.False(t, group.Expenditures[1].Payer.IsSet())

	t.Run("header is case-insensitive", func(t *testing.T) {
		group, err := ReadGroupCSV(strings.NewReader(" Title ,AMOUNT,Payer,Contributors\nTaxi,10,Alice,Bob\n"))
		require.NoError(t, err)
		require.Len(t, group.Expenditures, 1)
		assert.Equal(t, "Taxi", group.Expenditures[0].Title)
	})

	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"empty", "", "CSV is empty"},
		{"header only", "title,amount,payer,contributors\n", "no expenditures"},
		{"wrong columns", "title,amount,payer,contributors\nTaxi,10,Alice\n", "expected 4 columns"},
		{"too many columns", "title,amount,payer,contributors\nTaxi,10,Alice,Bob,extra\n", "expected 4 columns"},
		{"missing header", "Taxi,10,Alice,Bob\nDinner,20,Bob,Alice\n", "expected header"},
		{"wrong header", "name,amount,payer,contributors\nTaxi,10,Alice,Bob\n", "expected header"},
		{"bad amount", "title,amount,payer,contributors\nTaxi,ten,Alice,Bob\n", "invalid amount"},
		{"negative amount", "title,amount,payer,contributors\nTaxi,-5,Alice,Bob\n", "cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGroupCSV(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSettleCommand(t *testing.T) {
	input := filepath.Join(t.TempDir(), "trip.csv")
	require.NoError(t, os.WriteFile(input, []byte(tripCSV), 0o600))

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"settle", "--input", input})
	require.NoError(t, cmd.Execute())

	report := out.String()
	assert.Contains(t, report, "102.50")
	assert.Contains(t, report, "Bob -> Alice")
	assert.Contains(t, report, "Charlie -> Alice")
	assert.Contains(t, report, "-30.00")
	assert.Contains(t, report, calculator.MessageExcluded)
}

func TestSettleCommand_RequiresInput(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"settle"})
	assert.Error(t, cmd.Execute())
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "wildpay.db")

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"migrate", "--db", dbPath})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "schema version 1")

	out.Reset()
	cmd = NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"migrate", "--db", dbPath, "--down"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "schema version 0")
}
