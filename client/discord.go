package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"housecup/registry"
	"housecup/repository"

	"github.com/bwmarrin/discordgo"
)

type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordAnnouncer posts sealed results to a Discord channel.
type DiscordAnnouncer struct {
	session   embedSender
	ChannelId string
}

func NewDiscordAnnouncer(token, channelId string) (*DiscordAnnouncer, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &DiscordAnnouncer{session: session, ChannelId: channelId}, nil
}

func (d *DiscordAnnouncer) AnnounceSeal(ctx context.Context, match *repository.Match, results []*repository.Result) error {
	_, err := d.session.ChannelMessageSendEmbed(d.ChannelId, SealEmbed(match, results), discordgo.WithContext(ctx))
	return err
}

var medals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// SealEmbed renders a sealed match as a Discord embed colored after the
// winning house.
func SealEmbed(match *repository.Match, results []*repository.Result) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s sealed", match.Name),
		Description: fmt.Sprintf("Sector %s · %s", match.Sector, match.Regime),
		Fields:      make([]*discordgo.MessageEmbedField, 0, len(results)),
	}
	if match.SealedAt != nil {
		embed.Timestamp = match.SealedAt.Format(time.RFC3339)
	}
	if match.WinningHouseId != nil {
		if house, ok := registry.LookupHouse(*match.WinningHouseId); ok {
			embed.Color = hexColor(house.Color)
		}
	}
	for _, r := range results {
		name := r.HouseId
		if house, ok := registry.LookupHouse(r.HouseId); ok {
			name = house.Name
		}
		place := medals[r.Position]
		if place == "" {
			place = fmt.Sprintf("#%d", r.Position)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s %s", place, name),
			Value:  fmt.Sprintf("%d pts", r.Points),
			Inline: true,
		})
	}
	return embed
}

func hexColor(color string) int {
	v, err := strconv.ParseInt(strings.TrimPrefix(color, "#"), 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}
