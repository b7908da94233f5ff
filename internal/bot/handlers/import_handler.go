package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rllyu/twinbot/internal/database"
	"github.com/rllyu/twinbot/internal/ingest"
)

// NewImportHandler returns a handler for the /import command. The
// export is pasted directly after the command; file uploads are routed
// here by the chat handler.
func NewImportHandler(deps HandlerDeps) bot.HandlerFunc {
	return importHandler{deps}.Handle
}

type importHandler struct {
	deps HandlerDeps
}

func (h importHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "import")

	msg, from := messageFrom(update)
	if msg == nil {
		log.WarnContext(ctx, "Import handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	log.InfoContext(ctx, "Handling /import command", "chat_id", msg.Chat.ID, "user_id", from.ID)

	raw := strings.TrimSpace(strings.TrimPrefix(msg.Text, "/import"))
	if raw == "" {
		sendText(ctx, b, log, msg.Chat.ID,
			"Paste your chat export right after /import, or attach the export file with /import as its caption.")
		return
	}

	h.runImport(ctx, b, msg.Chat.ID, from.ID, raw, "paste")
}

// HandleDocument ingests an uploaded export file. Invoked from the chat
// handler when a message carries a document.
func (h importHandler) HandleDocument(ctx context.Context, b *bot.Bot, msg *models.Message) {
	log := h.deps.Logger.With("handler", "import")

	log.InfoContext(ctx, "Handling export file upload", "chat_id", msg.Chat.ID, "user_id", msg.From.ID, "file_name", msg.Document.FileName)

	if msg.Document.FileSize > int64(h.deps.Config.Clone.MaxImportBytes) {
		sendText(ctx, b, log, msg.Chat.ID,
			fmt.Sprintf("That file is too large. The import limit is %d bytes.", h.deps.Config.Clone.MaxImportBytes))
		return
	}

	raw, err := h.downloadDocument(ctx, b, msg.Document.FileID)
	if err != nil {
		log.ErrorContext(ctx, "Export file download failed", "error", err, "chat_id", msg.Chat.ID)
		sendText(ctx, b, log, msg.Chat.ID, "I couldn't download that file. Try again, or paste the export after /import.")
		return
	}

	h.runImport(ctx, b, msg.Chat.ID, msg.From.ID, raw, "file")
}

// runImport parses, filters, and stores an export, then reports counts.
func (h importHandler) runImport(ctx context.Context, b *bot.Bot, chatID, ownerID int64, raw, sourceType string) {
	log := h.deps.Logger.With("handler", "import")

	if len(raw) > h.deps.Config.Clone.MaxImportBytes {
		sendText(ctx, b, log, chatID,
			fmt.Sprintf("That export is too large. The import limit is %d bytes.", h.deps.Config.Clone.MaxImportBytes))
		return
	}

	records := ingest.Parse(raw)
	if len(records) == 0 {
		sendText(ctx, b, log, chatID, "I couldn't find any messages in that. Supported formats: JSON lines, JSON array, CSV, or a plain text chat log.")
		return
	}
	parsed := len(records)

	records = ingest.FilterPrimaryAuthor(records)

	dataset := &database.Dataset{
		OwnerID:    ownerID,
		Name:       fmt.Sprintf("%s import", sourceType),
		SourceType: sourceType,
	}
	if err := h.deps.Store.CreateDataset(ctx, dataset); err != nil {
		log.ErrorContext(ctx, "Failed to create dataset", "error", err, "owner_id", ownerID)
		sendText(ctx, b, log, chatID, "Something went wrong storing that import. Try again.")
		return
	}

	inserted, skipped := 0, 0
	for i := range records {
		rec := &records[i]
		row := &database.MessageRow{
			DatasetID: dataset.ID,
			OwnerID:   ownerID,
			Text:      rec.Text,
			Hash:      ingest.Hash(rec.Text, rec.Author, rec.Timestamp),
		}
		if rec.Author != "" {
			row.Author.String = rec.Author
			row.Author.Valid = true
		}
		if rec.Timestamp != nil {
			row.Timestamp.Time = *rec.Timestamp
			row.Timestamp.Valid = true
		}

		ok, err := h.deps.Store.InsertMessageRow(ctx, row)
		if err != nil {
			log.ErrorContext(ctx, "Failed to insert message row", "error", err, "owner_id", ownerID)
			continue
		}
		if ok {
			inserted++
		} else {
			skipped++
		}
	}

	log.InfoContext(ctx, "Import finished", "owner_id", ownerID, "parsed", parsed, "kept", len(records), "inserted", inserted, "duplicates", skipped)

	if inserted == 0 {
		sendText(ctx, b, log, chatID,
			fmt.Sprintf("Parsed %d messages, but everything was already imported. Nothing new to add.", parsed))
		return
	}
	sendText(ctx, b, log, chatID,
		fmt.Sprintf("Imported %d new messages (%d parsed, %d duplicates skipped). Run /rebuild to update your voice profile.", inserted, parsed, skipped))
}

// downloadDocument fetches an uploaded file's bytes from Telegram.
func (h importHandler) downloadDocument(ctx context.Context, b *bot.Bot, fileID string) (string, error) {
	downloadCtx, cancel := context.WithTimeout(ctx, fileDownloadTimeout)
	defer cancel()

	fileObj, err := b.GetFile(downloadCtx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("failed to get file info from Telegram: %w", err)
	}
	if fileObj.FilePath == "" {
		return "", fmt.Errorf("empty file path returned from Telegram for file ID %s", fileID)
	}

	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", h.deps.Config.Telegram.Token, fileObj.FilePath)
	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d downloading file", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(h.deps.Config.Clone.MaxImportBytes)+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file data: %w", err)
	}
	if len(data) > h.deps.Config.Clone.MaxImportBytes {
		return "", fmt.Errorf("file exceeds import limit of %d bytes", h.deps.Config.Clone.MaxImportBytes)
	}
	return string(data), nil
}
