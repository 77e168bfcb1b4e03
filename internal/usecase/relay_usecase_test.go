package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yourusername/telegram-gemini-bot/internal/domain/entity"
	"github.com/yourusername/telegram-gemini-bot/internal/domain/repository"
	"github.com/yourusername/telegram-gemini-bot/internal/guard"
	"github.com/yourusername/telegram-gemini-bot/internal/infrastructure/storage"
	"github.com/yourusername/telegram-gemini-bot/internal/telegramutil"
)

type staticGate bool

func (g staticGate) IsMember(ctx context.Context, userID int64) bool {
	return bool(g)
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeMessenger struct {
	mu          sync.Mutex
	texts       []sentMessage
	markdowns   []sentMessage
	typing      []int64
	markdownErr error
}

func (f *fakeMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeMessenger) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markdownErr != nil {
		return f.markdownErr
	}
	f.markdowns = append(f.markdowns, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeMessenger) SendTyping(ctx context.Context, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing = append(f.typing, chatID)
	return nil
}

type fakeAI struct {
	mu        sync.Mutex
	calls     int
	response  string
	err       error
	started   chan struct{}
	release   chan struct{}
	startOnce sync.Once
}

func (f *fakeAI) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.release != nil {
		<-f.release
	}
	return f.response, f.err
}

func (f *fakeAI) Close() error { return nil }

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type relayFixture struct {
	relay     RelayUseCase
	guard     *guard.Guard
	users     repository.UserRepository
	messages  repository.MessageRepository
	messenger *fakeMessenger
	ai        *fakeAI
}

func newRelayFixture(gate MembershipUseCase, ai *fakeAI, messenger *fakeMessenger) relayFixture {
	g := guard.New()
	users := storage.NewMemoryUserRepository()
	messages := storage.NewMemoryMessageRepository()
	return relayFixture{
		relay:     NewRelayUseCase(gate, g, users, messages, ai, messenger),
		guard:     g,
		users:     users,
		messages:  messages,
		messenger: messenger,
		ai:        ai,
	}
}

func inbound(text string) entity.InboundMessage {
	return entity.InboundMessage{ChatID: 100, SenderID: 200, Username: "alice", Text: text}
}

func TestRelayNonMemberGetsJoinPrompt(t *testing.T) {
	req := require.New(t)
	fix := newRelayFixture(staticGate(false), &fakeAI{response: "unused"}, &fakeMessenger{})

	fix.relay.HandleText(context.Background(), inbound("hello"))

	req.Equal(0, fix.ai.callCount())
	req.Len(fix.messenger.markdowns, 1)
	req.Equal(telegramutil.EscapeMarkdownV2(JoinPromptReply), fix.messenger.markdowns[0].text)

	count, err := fix.users.Count(context.Background())
	req.NoError(err)
	req.Equal(0, count)
	req.Equal(0, fix.guard.InFlight())
}

func TestRelaySecondMessageWhileBusy(t *testing.T) {
	req := require.New(t)
	ai := &fakeAI{
		response: "answer",
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	fix := newRelayFixture(staticGate(true), ai, &fakeMessenger{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		fix.relay.HandleText(context.Background(), inbound("first"))
	}()

	<-ai.started
	fix.relay.HandleText(context.Background(), inbound("second"))

	req.Equal(1, ai.callCount())
	req.Len(fix.messenger.texts, 1)
	req.Equal(BusyReply, fix.messenger.texts[0].text)

	close(ai.release)
	wg.Wait()

	req.Equal(0, fix.guard.InFlight())
	req.True(fix.guard.TryAcquire(100))
}

func TestRelaySuccessRendersMarkdown(t *testing.T) {
	req := require.New(t)
	fix := newRelayFixture(staticGate(true), &fakeAI{response: "**Hi** there"}, &fakeMessenger{})

	fix.relay.HandleText(context.Background(), inbound("hello"))

	req.Len(fix.messenger.markdowns, 1)
	req.Equal("*Hi* there", fix.messenger.markdowns[0].text)
	req.Equal([]int64{100}, fix.messenger.typing)

	count, err := fix.users.Count(context.Background())
	req.NoError(err)
	req.Equal(1, count)

	logged, err := fix.messages.GetAllMessages(context.Background(), 0)
	req.NoError(err)
	req.Len(logged, 1)
	req.Equal("hello", logged[0].Text)
	req.Equal("**Hi** there", logged[0].Response)
	req.NotEmpty(logged[0].ID)

	req.Equal(0, fix.guard.InFlight())
}

func TestRelayUpstreamFailureSendsApology(t *testing.T) {
	req := require.New(t)
	fix := newRelayFixture(staticGate(true), &fakeAI{err: errors.New("quota exceeded")}, &fakeMessenger{})

	fix.relay.HandleText(context.Background(), inbound("hello"))

	req.Len(fix.messenger.texts, 1)
	req.Equal(ApologyReply, fix.messenger.texts[0].text)
	req.Empty(fix.messenger.markdowns)

	logged, err := fix.messages.GetAllMessages(context.Background(), 0)
	req.NoError(err)
	req.Empty(logged)

	req.Equal(0, fix.guard.InFlight())
	req.True(fix.guard.TryAcquire(100))
}

func TestRelaySendFailureStillReleasesGuard(t *testing.T) {
	req := require.New(t)
	messenger := &fakeMessenger{markdownErr: errors.New("blocked by user")}
	fix := newRelayFixture(staticGate(true), &fakeAI{response: "answer"}, messenger)

	fix.relay.HandleText(context.Background(), inbound("hello"))

	req.Len(fix.messenger.texts, 1)
	req.Equal(ApologyReply, fix.messenger.texts[0].text)
	req.Equal(0, fix.guard.InFlight())
	req.True(fix.guard.TryAcquire(100))
}

type failingUserRepository struct{}

func (failingUserRepository) RegisterIfAbsent(ctx context.Context, user entity.User) error {
	return errors.New("disk full")
}

func (failingUserRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	return nil, errors.New("disk full")
}

func (failingUserRepository) Count(ctx context.Context) (int, error) {
	return 0, errors.New("disk full")
}

func TestRelayRegistryFailureDoesNotAbort(t *testing.T) {
	req := require.New(t)
	messenger := &fakeMessenger{}
	g := guard.New()
	relay := NewRelayUseCase(
		staticGate(true),
		g,
		failingUserRepository{},
		storage.NewMemoryMessageRepository(),
		&fakeAI{response: "answer"},
		messenger,
	)

	relay.HandleText(context.Background(), inbound("hello"))

	req.Len(messenger.markdowns, 1)
	req.Equal("answer", messenger.markdowns[0].text)
	req.Equal(0, g.InFlight())
}

func TestRelayRegisterIfAbsentIdempotent(t *testing.T) {
	req := require.New(t)
	fix := newRelayFixture(staticGate(true), &fakeAI{response: "answer"}, &fakeMessenger{})

	fix.relay.HandleText(context.Background(), inbound("one"))
	fix.relay.HandleText(context.Background(), inbound("two"))

	count, err := fix.users.Count(context.Background())
	req.NoError(err)
	req.Equal(1, count)
}
