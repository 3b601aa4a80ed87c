// Package bot runs the Telegram side of the site: a long-polling bot
// that greets users, reports stats to the admin chat, ingests posters
// sent as photos and pushes notifications about new releases and
// support messages.
package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	db        *gorm.DB
	store     storage.Store
	adminChat int64
	siteURL   string
}

// New builds the bot from telegram.bot_token. An empty token disables
// the bot entirely: New returns (nil, nil) and every caller treats a nil
// *Bot as "no Telegram".
func New(db *gorm.DB, store storage.Store) (*Bot, error) {
	token := viper.GetString("telegram.bot_token")
	if token == "" {
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram, %w", err)
	}

	return &Bot{
		api:       api,
		db:        db,
		store:     store,
		adminChat: viper.GetInt64("telegram.admin_chat_id"),
		siteURL:   viper.GetString("host.base_url"),
	}, nil
}

// Start begins long polling in the background.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	zap.L().Info("Telegram bot started", zap.String("username", b.api.Self.UserName))

	go func() {
		for update := range updates {
			go b.handleUpdate(update)
		}
	}()
}

// Notify posts text to the admin chat. Safe on a nil receiver so callers
// don't need to care whether the bot is configured.
func (b *Bot) Notify(text string) {
	if b == nil || b.adminChat == 0 {
		return
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(b.adminChat, text)); err != nil {
		zap.L().Warn("Failed to notify admin chat", zap.Error(err))
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	switch {
	case msg.IsCommand() && msg.Command() == "start":
		b.reply(msg.Chat.ID, "Welcome! Browse and watch at "+b.siteURL)

	case msg.IsCommand() && msg.Command() == "stats":
		if msg.Chat.ID != b.adminChat {
			return
		}
		b.reply(msg.Chat.ID, b.statsText())

	case len(msg.Photo) > 0 && msg.Chat.ID == b.adminChat:
		b.handlePoster(msg)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		zap.L().Warn("Failed to send Telegram message", zap.Error(err))
	}
}

func (b *Bot) statsText() string {
	var movies, series, pendingSupport int64

	b.db.Model(model.Movie{}).Count(&movies)
	b.db.Model(model.Series{}).Count(&series)
	b.db.Model(model.SupportMessage{}).Where("status = ?", "pending").Count(&pendingSupport)

	return fmt.Sprintf("Movies: %d\nSeries: %d\nPending support messages: %d", movies, series, pendingSupport)
}

// handlePoster ingests a photo captioned "poster <movie-id>" from the
// admin chat as that movie's poster.
func (b *Bot) handlePoster(msg *tgbotapi.Message) {
	fields := strings.Fields(msg.Caption)
	if len(fields) != 2 || strings.ToLower(fields[0]) != "poster" {
		return
	}
	movieID := fields[1]

	var movie model.Movie
	if err := b.db.First(&movie, "id = ?", movieID).Error; err != nil {
		b.reply(msg.Chat.ID, "No movie with id "+movieID)
		return
	}

	// Largest photo size is last
	photo := msg.Photo[len(msg.Photo)-1]

	fileURL, err := b.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		zap.L().Error("Failed to resolve Telegram file", zap.Error(err))
		b.reply(msg.Chat.ID, "Failed to fetch the photo")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		zap.L().Error("Failed to build photo request", zap.Error(err))
		return
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		zap.L().Error("Failed to download Telegram photo", zap.Error(err))
		b.reply(msg.Chat.ID, "Failed to fetch the photo")
		return
	}
	defer resp.Body.Close()

	key := "poster_" + movieID + ".jpg"

	if err := b.store.Put(ctx, key, resp.Body, resp.ContentLength, "image/jpeg"); err != nil {
		zap.L().Error("Failed to store poster", zap.Error(err))
		b.reply(msg.Chat.ID, "Failed to store the poster")
		return
	}

	err = b.db.
		Model(model.Movie{}).
		Where("id = ?", movieID).
		Update("poster_path", b.store.URL(key)).
		Error
	if err != nil {
		zap.L().Error("Failed to update poster path", zap.Error(err))
		b.reply(msg.Chat.ID, "Failed to save the poster")
		return
	}

	b.reply(msg.Chat.ID, "Poster updated for "+movie.Title)
}
