package testutil

import (
	"context"
	"errors"
	"sync"
)

// FakeMailer records outbound emails. Set Fail to simulate SMTP outages.
type FakeMailer struct {
	mu   sync.Mutex
	Fail bool
	Sent []SentMail
}

type SentMail struct {
	Kind     string // "verification", "reset", "invite"
	To       string
	SiteName string
	Link     string
}

func (m *FakeMailer) SendSignupVerification(ctx context.Context, to, link string) error {
	return m.record(SentMail{Kind: "verification", To: to, Link: link})
}

func (m *FakeMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	return m.record(SentMail{Kind: "reset", To: to, Link: link})
}

func (m *FakeMailer) SendSiteInvite(ctx context.Context, to, siteName, link string) error {
	return m.record(SentMail{Kind: "invite", To: to, SiteName: siteName, Link: link})
}

func (m *FakeMailer) record(mail SentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("smtp unavailable")
	}
	m.Sent = append(m.Sent, mail)
	return nil
}

// Last returns the most recently sent mail, or nil.
func (m *FakeMailer) Last() *SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	last := m.Sent[len(m.Sent)-1]
	return &last
}

// FakeCapturer stands in for the headless-browser screenshotter.
type FakeCapturer struct {
	Fail bool
	URL  string
}

func (c *FakeCapturer) Capture(ctx context.Context, url, siteID string) (string, error) {
	if c.Fail {
		return "", errors.New("navigation timeout")
	}
	if c.URL != "" {
		return c.URL, nil
	}
	return "https://covers.test/" + siteID + ".png", nil
}

// FakePublisher collects events handed to the live feed.
type FakePublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

type PublishedEvent struct {
	IframeID string
	Payload  any
}

func (p *FakePublisher) PublishComment(iframeID string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{IframeID: iframeID, Payload: payload})
}

func (p *FakePublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Events)
}
