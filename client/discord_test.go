package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"housecup/registry"
	"housecup/repository"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	channel string
	embed   *discordgo.MessageEmbed
	err     error
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channel, f.embed = channelID, embed
	return &discordgo.Message{}, f.err
}

func sealedMatch() (*repository.Match, []*repository.Result) {
	winner := "u2"
	at := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	match := &repository.Match{
		Id: "M1", Name: "Relay", Sector: registry.UPSS, Regime: repository.SingleMarks,
		Status: repository.StatusFinished, WinningHouseId: &winner, SealedAt: &at,
	}
	results := []*repository.Result{
		{MatchId: "M1", HouseId: "u2", Position: 1, Points: 15},
		{MatchId: "M1", HouseId: "u1", Position: 2, Points: 12},
		{MatchId: "M1", HouseId: "u3", Position: 4, Points: 6},
	}
	return match, results
}

func TestSealEmbed(t *testing.T) {
	match, results := sealedMatch()
	embed := SealEmbed(match, results)

	assert.Equal(t, "Relay sealed", embed.Title)
	assert.Equal(t, 0xEF4444, embed.Color)
	assert.Equal(t, "2026-03-02T12:00:00Z", embed.Timestamp)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "🥇 Victory Vikings", embed.Fields[0].Name)
	assert.Equal(t, "15 pts", embed.Fields[0].Value)
	assert.Equal(t, "#4 Harmony Hawks", embed.Fields[2].Name)
}

func TestAnnounceSeal(t *testing.T) {
	sender := &fakeSender{}
	announcer := &DiscordAnnouncer{session: sender, ChannelId: "results"}
	match, results := sealedMatch()

	require.NoError(t, announcer.AnnounceSeal(context.Background(), match, results))
	assert.Equal(t, "results", sender.channel)
	assert.NotNil(t, sender.embed)

	sender.err = errors.New("rate limited")
	assert.Error(t, announcer.AnnounceSeal(context.Background(), match, results))
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, 0xFFFFFF, hexColor("#FFFFFF"))
	assert.Equal(t, 0, hexColor("teal"))
}
