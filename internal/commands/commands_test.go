package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/detectors"
)

func TestCheckCommandsMapToRegisteredDetectors(t *testing.T) {
	registered := make(map[string]bool)
	for _, d := range detectors.Ordered() {
		registered[d.Name()] = true
	}

	require.Len(t, checkCommands, len(registered))
	for command, detector := range checkCommands {
		assert.True(t, registered[detector], "command %s targets unknown detector %s", command, detector)
		assert.NotNil(t, detectorByName(detector))
	}
}

func TestEveryCheckCommandIsDeclared(t *testing.T) {
	declared := make(map[string]bool)
	for _, cmd := range GetAllCommands() {
		declared[cmd.Name] = true
	}

	for command := range checkCommands {
		assert.True(t, declared[command], "command %s missing from declarations", command)
	}
	assert.True(t, declared["all_checks"])
	assert.True(t, declared["set_language"])
}

func TestDetectorByNameUnknown(t *testing.T) {
	assert.Nil(t, detectorByName("no_such_check"))
}
