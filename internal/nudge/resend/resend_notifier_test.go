package resend

import (
	"errors"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
)

type fakeEmails struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeEmails) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "1"}, f.err
}

func TestSendNudge(t *testing.T) {
	fake := &fakeEmails{}
	n := &ResendNotifier{From: "me@example.com", To: "you@example.com", emails: fake}

	if err := n.SendNudge([]string{"guitar", "<b>read</b>"}); err != nil {
		t.Fatalf("SendNudge failed: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(fake.sent))
	}
	got := fake.sent[0]
	if got.To[0] != "you@example.com" || got.From != "me@example.com" {
		t.Fatalf("wrong addressing: %+v", got)
	}
	if !strings.Contains(got.Html, "<li>guitar</li>") {
		t.Fatalf("missing habit in body: %s", got.Html)
	}
	if strings.Contains(got.Html, "<b>read</b>") {
		t.Fatalf("habit name not escaped: %s", got.Html)
	}
}

func TestSend_PropagatesError(t *testing.T) {
	boom := errors.New("rate limited")
	n := &ResendNotifier{To: "you@example.com", emails: &fakeEmails{err: boom}}
	if err := n.Send("Time's up", "guitar finished"); !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
}
