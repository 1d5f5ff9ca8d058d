// Package mailsync pulls CV attachments out of the recruiting mailbox over
// IMAP, extracts structured candidates from them and feeds new profiles into
// the candidate pool.
package mailsync

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"

	"smart-hire-be/pkg/engine/dispatcher"
	"smart-hire-be/pkg/store"
)

// CandidateStore is the write side of the candidate pool the syncer fills.
type CandidateStore interface {
	Exists(ctx context.Context, cand store.Candidate) (bool, error)
	Add(ctx context.Context, cand store.Candidate) error
}

type Syncer struct {
	extractor *Extractor
	pool      CandidateStore
	logger    *log.Logger
}

var _ dispatcher.EmailSyncer = &Syncer{}

func New(extractor *Extractor, pool CandidateStore, logger *log.Logger) *Syncer {
	return &Syncer{extractor: extractor, pool: pool, logger: logger}
}

// Sync connects to the mailbox, walks every unread message and processes its
// CV attachments. Per-message failures are recorded in the summary, never
// fatal: one broken attachment must not abort the rest of the inbox.
func (s *Syncer) Sync(ctx context.Context, creds dispatcher.SyncCredentials) (*dispatcher.SyncSummary, error) {
	summary := &dispatcher.SyncSummary{}

	c, err := client.DialTLS(creds.IMAPServer+":993", nil)
	if err != nil {
		return nil, fmt.Errorf("imap dial %s: %w", creds.IMAPServer, err)
	}
	defer c.Logout()

	if err := c.Login(creds.Email, creds.Password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	summary.Connected = true

	if _, err := c.Select("INBOX", false); err != nil {
		return summary, fmt.Errorf("select inbox: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return summary, fmt.Errorf("search unseen: %w", err)
	}
	summary.EmailsFound = len(ids)
	if len(ids) == 0 {
		return summary, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope}, messages)
	}()

	for msg := range messages {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		s.processMessage(ctx, msg, section, summary)
	}
	if err := <-done; err != nil {
		return summary, fmt.Errorf("fetch messages: %w", err)
	}

	// Processed messages stay in the mailbox but drop out of the next
	// unseen search.
	flags := []interface{}{imap.SeenFlag}
	if err := c.Store(seqset, imap.FormatFlagsOp(imap.AddFlags, true), flags, nil); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("mark seen: %v", err))
	}

	return summary, nil
}

func (s *Syncer) processMessage(ctx context.Context, msg *imap.Message, section *imap.BodySectionName, summary *dispatcher.SyncSummary) {
	body := msg.GetBody(section)
	if body == nil {
		summary.Errors = append(summary.Errors, "message without body section")
		return
	}

	mr, err := mail.CreateReader(body)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("parse message: %v", err))
		return
	}

	sender := ""
	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		sender = addrs[0].Address
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("read part: %v", err))
			break
		}

		header, ok := part.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}
		filename, err := header.Filename()
		if err != nil || filename == "" {
			continue
		}

		content, err := io.ReadAll(part.Body)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: read attachment: %v", filename, err))
			continue
		}
		s.processAttachment(ctx, filename, content, sender, summary)
	}
}

func (s *Syncer) processAttachment(ctx context.Context, filename string, content []byte, sender string, summary *dispatcher.SyncSummary) {
	text, err := ExtractText(content, filename)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", filename, err))
		return
	}
	if text == "" {
		return
	}
	summary.CVsProcessed++

	cand, err := s.extractor.ExtractCandidate(ctx, text, sender)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: extract: %v", filename, err))
		return
	}
	if cand == nil {
		return
	}

	exists, err := s.pool.Exists(ctx, *cand)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: lookup: %v", filename, err))
		return
	}
	if exists {
		s.logger.Printf("[MAILSYNC] %s already in pool, skipping", cand.FullName())
		return
	}

	if err := s.pool.Add(ctx, *cand); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: insert: %v", filename, err))
		return
	}
	summary.CVsAdded++
	summary.CandidatesAdded = append(summary.CandidatesAdded, *cand)
	s.logger.Printf("[MAILSYNC] added %s from %s", cand.FullName(), filename)
}
