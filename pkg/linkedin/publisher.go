package linkedin

// Publisher bundles the API client and the post composer behind the single
// surface the dialogue engine consumes. Generated posts are also written to
// the draft directory so a recruiter can recover them outside the chat.
type Publisher struct {
	*Client
	*Composer

	draftDir string
}

func NewPublisher(client *Client, composer *Composer, draftDir string) *Publisher {
	return &Publisher{Client: client, Composer: composer, draftDir: draftDir}
}

// SaveDraft persists the post content under the configured draft directory
// and returns the file path.
func (p *Publisher) SaveDraft(content string) (string, error) {
	return SaveDraft(p.draftDir, content)
}
