package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/domain"
)

var imageMIMEs = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// BuildAttachment classifies raw file bytes into a pending attachment.
// Images become base64 data URLs; HTML documents are reduced to their
// visible text; everything else is treated as plain text.
func BuildAttachment(name string, data []byte) (domain.Attachment, error) {
	if len(data) > config.MaxAttachmentSize {
		return domain.Attachment{}, domain.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(name))

	if mime, ok := imageMIMEs[ext]; ok {
		return domain.Attachment{
			Name:    name,
			Kind:    domain.AttachmentImage,
			DataURL: fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)),
		}, nil
	}

	if ext == ".html" || ext == ".htm" {
		text, err := extractHTMLText(data)
		if err != nil {
			return domain.Attachment{}, fmt.Errorf("extract html text: %w", err)
		}
		return domain.Attachment{Name: name, Kind: domain.AttachmentText, Content: text}, nil
	}

	return domain.Attachment{Name: name, Kind: domain.AttachmentText, Content: string(data)}, nil
}

// extractHTMLText strips markup, scripts and styles, keeping visible text.
func extractHTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()

	var parts []string
	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		if t := strings.TrimSpace(doc.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// ComposeMessageText inlines text attachments into the outgoing message
// body and notes attached images.
func ComposeMessageText(text string, atts []domain.Attachment) string {
	var textFiles, imageFiles []domain.Attachment
	for _, a := range atts {
		if a.Kind == domain.AttachmentImage {
			imageFiles = append(imageFiles, a)
		} else {
			textFiles = append(textFiles, a)
		}
	}

	var sb strings.Builder
	sb.WriteString(text)

	if len(textFiles) > 0 {
		sb.WriteString("\n\n📎 Прикреплённые документы:\n\n")
		for _, f := range textFiles {
			fmt.Fprintf(&sb, "--- %s ---\n%s\n\n", f.Name, f.Content)
		}
	}
	if len(imageFiles) > 0 {
		fmt.Fprintf(&sb, "\n\n🖼️ Прикреплено изображений: %d\n", len(imageFiles))
		for _, f := range imageFiles {
			fmt.Fprintf(&sb, "📷 %s\n", f.Name)
		}
	}
	return sb.String()
}

// ChatContent builds the outgoing content value: a plain string, or
// text + image_url parts when image attachments are present.
func ChatContent(text string, atts []domain.Attachment) interface{} {
	var images []domain.Attachment
	for _, a := range atts {
		if a.Kind == domain.AttachmentImage && a.DataURL != "" {
			images = append(images, a)
		}
	}
	if len(images) == 0 {
		return text
	}

	parts := []interface{}{
		map[string]interface{}{"type": "text", "text": text},
	}
	for _, img := range images {
		parts = append(parts, map[string]interface{}{
			"type":      "image_url",
			"image_url": map[string]string{"url": img.DataURL},
		})
	}
	return parts
}
