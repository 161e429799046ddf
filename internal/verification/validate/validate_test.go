package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docseva/internal/verification/models"
	"docseva/internal/verification/registry"
	dErrors "docseva/pkg/domain-errors"
)

var captureTime = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func Test_Aadhaar(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain 12 digits", input: "123456789012", want: "123456789012"},
		{name: "hyphenated normalizes", input: "1234-5678-9012", want: "123456789012"},
		{name: "spaces normalize", input: "1234 5678 9012", want: "123456789012"},
		{name: "11 digits fails", input: "1234-5678-901", wantErr: true},
		{name: "13 digits fails", input: "1234567890123", wantErr: true},
		{name: "letters fail", input: "12345678901a", wantErr: true},
		{name: "empty fails", input: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Aadhaar(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_PAN(t *testing.T) {
	got, err := PAN("ABCDE1234F")
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", got)

	got, err = PAN("abcde1234f")
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", got, "lowercase input normalizes")

	_, err = PAN("ABCD1234F")
	require.Error(t, err, "four leading letters is invalid")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFormat))

	_, err = PAN("ABCDE12345")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFormat))
}

func Test_FutureDate(t *testing.T) {
	tomorrow := captureTime.AddDate(0, 0, 1).Format(DateLayout)
	got, err := FutureDate(tomorrow, captureTime)
	require.NoError(t, err)
	assert.Equal(t, tomorrow, got)

	yesterday := captureTime.AddDate(0, 0, -1).Format(DateLayout)
	_, err = FutureDate(yesterday, captureTime)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeExpiredDocument))

	_, err = FutureDate("not-a-date", captureTime)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDate))
}

func Test_DateOfBirth(t *testing.T) {
	got, err := DateOfBirth("1990-06-01", captureTime)
	require.NoError(t, err)
	assert.Equal(t, "1990-06-01", got)

	future := captureTime.AddDate(1, 0, 0).Format(DateLayout)
	_, err = DateOfBirth(future, captureTime)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDate))

	_, err = DateOfBirth("1990-13-40", captureTime)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDate))
}

func Test_Count(t *testing.T) {
	got, err := Count("4")
	require.NoError(t, err)
	assert.Equal(t, "4", got)

	got, err = Count(" 1 ")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	for _, bad := range []string{"0", "-2", "three", ""} {
		_, err := Count(bad)
		require.Error(t, err, "input %q", bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidValue))
	}
}

func Test_Apply_ValidAadhaar(t *testing.T) {
	schema, err := registry.Schema(models.TypeAadhaar)
	require.NoError(t, err)

	fields, err := Apply(schema, map[string]string{
		models.FieldAadhaarNumber: "1234-5678-9012",
		models.FieldFullName:      "  Asha Rao ",
		models.FieldDateOfBirth:   "1991-02-11",
		models.FieldAddress:       "12 MG Road, Pune",
	}, captureTime)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		models.FieldAadhaarNumber: "123456789012",
		models.FieldFullName:      "Asha Rao",
		models.FieldDateOfBirth:   "1991-02-11",
		models.FieldAddress:       "12 MG Road, Pune",
	}, fields)
}

func Test_Apply_CollectsAllFailures(t *testing.T) {
	schema, err := registry.Schema(models.TypeDrivingLicense)
	require.NoError(t, err)

	_, err = Apply(schema, map[string]string{
		models.FieldLicenseNumber: "dl-0420",
		models.FieldExpiryDate:    captureTime.AddDate(0, 0, -1).Format(DateLayout),
		models.FieldDateOfBirth:   "1988-01-30",
		models.FieldAddress:       "5 Station Road",
	}, captureTime)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidationFailed))

	var coded *dErrors.Error
	require.ErrorAs(t, err, &coded)
	assert.Contains(t, coded.Fields(), models.FieldExpiryDate)
	assert.Contains(t, coded.Fields(), models.FieldFullName)
	assert.NotContains(t, coded.Fields(), models.FieldAddress)
}

func Test_Apply_OptionalBlankSkipped(t *testing.T) {
	schema, err := registry.Schema(models.TypeRationCard)
	require.NoError(t, err)

	fields, err := Apply(schema, map[string]string{
		models.FieldRationCardNumber:      "rc-7781",
		models.FieldFamilyHead:            "Vikram Shinde",
		models.FieldNumberOfFamilyMembers: "5",
		models.FieldAddress:               "Ward 4, Nashik",
	}, captureTime)
	require.NoError(t, err)
	assert.Equal(t, "RC-7781", fields[models.FieldRationCardNumber])
	assert.NotContains(t, fields, models.FieldFullName)
	assert.NotContains(t, fields, models.FieldDateOfBirth)
}

func Test_Apply_UnknownInputIgnored(t *testing.T) {
	schema, err := registry.Schema(models.TypePAN)
	require.NoError(t, err)

	fields, err := Apply(schema, map[string]string{
		models.FieldPANNumber:   "abcde1234f",
		models.FieldFullName:    "Meena Iyer",
		models.FieldDateOfBirth: "1979-09-09",
		models.FieldAddress:     "3 Lake View",
		"favouriteColour":       "teal",
	}, captureTime)
	require.NoError(t, err)
	assert.NotContains(t, fields, "favouriteColour")
	assert.Equal(t, "ABCDE1234F", fields[models.FieldPANNumber])
}
