package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAppInsights() *ApplicationInsightsProps {
	return &ApplicationInsightsProps{
		Name:            "appi-orders-prod",
		Location:        testLocation,
		ApplicationType: "web",
	}
}

func TestAppInsightsValidateProps(t *testing.T) {
	assert.NoError(t, validAppInsights().ValidateProps())
}

func TestAppInsightsInvalidName(t *testing.T) {
	for _, name := range []string{"appi%prod", "appi?prod", "appi/prod", "appi&prod"} {
		t.Run(name, func(t *testing.T) {
			props := validAppInsights()
			props.Name = name
			err := props.ValidateProps()
			assert.Equal(t, "SCHEMA002", catalogCode(t, err))
		})
	}
}

func TestAppInsightsInvalidApplicationType(t *testing.T) {
	props := validAppInsights()
	props.ApplicationType = "desktop"

	err := props.ValidateProps()
	require.Error(t, err)
	assert.Equal(t, "TYPE002", catalogCode(t, err))
}

func TestAppInsightsRetention(t *testing.T) {
	for _, days := range []int{30, 60, 90, 120, 180, 270, 365, 550, 730} {
		props := validAppInsights()
		props.RetentionInDays = &days
		assert.NoError(t, props.ValidateProps(), "retention %d", days)
	}

	invalid := 45
	props := validAppInsights()
	props.RetentionInDays = &invalid
	err := props.ValidateProps()
	require.Error(t, err)
	assert.Equal(t, "TYPE003", catalogCode(t, err))
}

func TestAppInsightsShortRetentionInfo(t *testing.T) {
	days := 30
	props := validAppInsights()
	props.RetentionInDays = &days

	result := props.ValidateARMStructure()
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.InfoCount)
}

func validActionGroup() *ActionGroupProps {
	return &ActionGroupProps{
		Name:           "ag-oncall",
		GroupShortName: "oncall",
		Enabled:        true,
		EmailReceivers: []EmailReceiverProps{
			{Name: "primary", EmailAddress: "oncall@example.com"},
		},
	}
}

func TestActionGroupValidateProps(t *testing.T) {
	assert.NoError(t, validActionGroup().ValidateProps())
}

func TestActionGroupShortNameTooLong(t *testing.T) {
	group := validActionGroup()
	group.GroupShortName = "much-too-long-short-name"

	err := group.ValidateProps()
	assert.Equal(t, "SCHEMA003", catalogCode(t, err))
}

func TestActionGroupInvalidEmail(t *testing.T) {
	group := validActionGroup()
	group.EmailReceivers[0].EmailAddress = "not-an-email"

	err := group.ValidateProps()
	require.Error(t, err)
	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "email", fe.Tag)
}

func TestActionGroupDuplicateReceivers(t *testing.T) {
	group := validActionGroup()
	group.EmailReceivers = append(group.EmailReceivers, group.EmailReceivers[0])

	err := group.ValidateProps()
	assert.Equal(t, "SCHEMA002", catalogCode(t, err))
}

func TestActionGroupDisabledWarning(t *testing.T) {
	group := validActionGroup()
	group.Enabled = false

	result := group.ValidateARMStructure()
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.WarningCount)
}
