package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
)

func TestEveryoneRole(t *testing.T) {
	snap := &Snapshot{
		Roles: []Role{
			{ID: "e", Name: "@everyone", Everyone: true},
			{ID: "a", Name: "A", Position: 1},
		},
	}

	everyone, ok := snap.EveryoneRole()
	require.True(t, ok)
	assert.Equal(t, "e", everyone.ID)

	empty := &Snapshot{}
	_, ok = empty.EveryoneRole()
	assert.False(t, ok)
}

func TestChannelsOfKind(t *testing.T) {
	snap := &Snapshot{
		Channels: []Channel{
			{ID: "t1", Kind: ChannelText},
			{ID: "v1", Kind: ChannelVoice},
			{ID: "cat", Kind: ChannelOther},
			{ID: "t2", Kind: ChannelText},
		},
	}

	texts := snap.TextChannels()
	require.Len(t, texts, 2)
	assert.Equal(t, "t1", texts[0].ID)
	assert.Equal(t, "t2", texts[1].ID)

	voices := snap.VoiceChannels()
	require.Len(t, voices, 1)
	assert.Equal(t, "v1", voices[0].ID)
}

func TestChannelOverwriteLookup(t *testing.T) {
	ch := Channel{
		RoleOverwrites: map[string]Overwrite{
			"r1": {Allow: perms.NewSet(perms.SendMessages)},
		},
	}

	ow, ok := ch.Overwrite("r1")
	require.True(t, ok)
	assert.True(t, ow.Allow.Has(perms.SendMessages))

	_, ok = ch.Overwrite("missing")
	assert.False(t, ok)
}

func TestSettingsHasFeature(t *testing.T) {
	s := Settings{Features: []string{"COMMUNITY"}}
	assert.True(t, s.HasFeature("COMMUNITY"))
	assert.False(t, s.HasFeature("AUTO_MODERATION"))
}
