package botapp

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	tginfra "github.com/hp356662-a11y/Mingle9933-Bot/internal/infra/telegram"
	pgrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/postgres"
	redisrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/redis"
	browsesvc "github.com/hp356662-a11y/Mingle9933-Bot/internal/services/browse"
	onboardingsvc "github.com/hp356662-a11y/Mingle9933-Bot/internal/services/onboarding"
	profilesvc "github.com/hp356662-a11y/Mingle9933-Bot/internal/services/profiles"
	swipesvc "github.com/hp356662-a11y/Mingle9933-Bot/internal/services/swipes"
	"github.com/hp356662-a11y/Mingle9933-Bot/internal/session"
)

type sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendTextRemoveKeyboard(ctx context.Context, chatID int64, text string) error
	SendMenu(ctx context.Context, chatID int64, text string, buttonRows [][]string) error
	SendOneTimeMenu(ctx context.Context, chatID int64, text string, labels []string) error
	SendInline(ctx context.Context, chatID int64, text string, buttons []tginfra.InlineButton) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

type onboardingService interface {
	Begin(userID int64) onboardingsvc.Outcome
	InProgress(userID int64) bool
	HandleText(ctx context.Context, userID int64, text string) (onboardingsvc.Outcome, error)
}

type browseService interface {
	NextCandidate(ctx context.Context, userID int64) (browsesvc.Candidate, error)
}

type swipeService interface {
	Swipe(ctx context.Context, actorID, targetID int64, action string) (swipesvc.Result, error)
}

type matchService interface {
	List(ctx context.Context, userID int64) ([]pgrepo.MatchedUserRecord, error)
}

type profileService interface {
	Get(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
}

type browseQueue interface {
	Enqueue(ctx context.Context, userID, chatID int64, due time.Time) (string, error)
}

// dispatcher routes bot updates to the services. Every handler returns
// nil to the listen loop; collaborator failures are logged and
// answered with a generic apology so one bad update never stops
// polling.
type dispatcher struct {
	bot          sender
	onboarding   onboardingService
	browse       browseService
	swipes       swipeService
	matches      matchService
	profiles     profileService
	queue        browseQueue
	requeueDelay time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

func (d *dispatcher) handleCommand(ctx context.Context, update tginfra.CommandUpdate) error {
	switch strings.ToLower(strings.TrimSpace(update.Command)) {
	case "start":
		d.start(ctx, update.ChatID, update.UserID)
	case "profile":
		d.showProfile(ctx, update.ChatID, update.UserID)
	case "browse":
		d.showNextCandidate(ctx, update.ChatID, update.UserID)
	case "matches":
		d.showMatches(ctx, update.ChatID, update.UserID)
	}
	return nil
}

func (d *dispatcher) handleText(ctx context.Context, update tginfra.TextUpdate) error {
	// Reply keyboard buttons arrive as plain text.
	switch strings.TrimSpace(update.Text) {
	case buttonBrowse:
		d.showNextCandidate(ctx, update.ChatID, update.UserID)
		return nil
	case buttonMatches:
		d.showMatches(ctx, update.ChatID, update.UserID)
		return nil
	case buttonProfile:
		d.showProfile(ctx, update.ChatID, update.UserID)
		return nil
	}

	if session.IsCommand(update.Text) || !d.onboarding.InProgress(update.UserID) {
		return nil
	}

	outcome, err := d.onboarding.HandleText(ctx, update.UserID, update.Text)
	if err != nil {
		if errors.Is(err, onboardingsvc.ErrNoSession) {
			return nil
		}
		d.apologize(ctx, update.ChatID, update.UserID, err)
		return nil
	}

	if outcome.Completed {
		d.trySend(update.UserID, d.bot.SendMenu(ctx, update.ChatID, msgProfileCreated, mainMenuRows()))
		return nil
	}

	d.sendStepPrompt(ctx, update.ChatID, update.UserID, outcome.NextStep)
	return nil
}

func (d *dispatcher) handleCallback(ctx context.Context, update tginfra.CallbackUpdate) error {
	action, rawID, ok := strings.Cut(strings.TrimSpace(update.Data), "_")
	if !ok || (action != "like" && action != "pass") {
		return nil
	}
	targetID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || targetID <= 0 {
		return nil
	}

	result, err := d.swipes.Swipe(ctx, update.UserID, targetID, action)
	if err != nil {
		d.trySend(update.UserID, d.bot.AnswerCallback(ctx, update.CallbackID, ""))
		d.apologize(ctx, update.ChatID, update.UserID, err)
		return nil
	}

	switch {
	case result.MatchCreated:
		d.trySend(update.UserID, d.bot.AnswerCallback(ctx, update.CallbackID, ackMatch))
		d.notifyMatch(ctx, update.ChatID, update.UserID, targetID)
	case action == "like":
		d.trySend(update.UserID, d.bot.AnswerCallback(ctx, update.CallbackID, ackLiked))
	default:
		d.trySend(update.UserID, d.bot.AnswerCallback(ctx, update.CallbackID, ackPass))
	}

	if _, err := d.queue.Enqueue(ctx, update.UserID, update.ChatID, d.now().Add(d.requeueDelay)); err != nil {
		d.logger.Error("enqueue browse follow-up failed", zap.Error(err), zap.Int64("user_id", update.UserID))
	}
	return nil
}

// deliverFollowUp is the browse worker handler: the delayed "show me
// the next profile" continuation enqueued after each swipe.
func (d *dispatcher) deliverFollowUp(ctx context.Context, task redisrepo.QueuedTask) {
	d.trySend(task.UserID, d.bot.SendText(ctx, task.ChatID, msgLoadingNext))
	d.showNextCandidate(ctx, task.ChatID, task.UserID)
}

func (d *dispatcher) start(ctx context.Context, chatID, userID int64) {
	user, err := d.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		d.trySend(userID, d.bot.SendMenu(ctx, chatID, welcomeBackText(user.Name), mainMenuRows()))
	case errors.Is(err, profilesvc.ErrNotFound):
		d.onboarding.Begin(userID)
		d.trySend(userID, d.bot.SendTextRemoveKeyboard(ctx, chatID, msgWelcomeNew))
	default:
		d.apologize(ctx, chatID, userID, err)
	}
}

func (d *dispatcher) showProfile(ctx context.Context, chatID, userID int64) {
	user, err := d.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		d.trySend(userID, d.bot.SendText(ctx, chatID, ownProfileText(user)))
	case errors.Is(err, profilesvc.ErrNotFound):
		d.trySend(userID, d.bot.SendText(ctx, chatID, msgRegisterFirst))
	default:
		d.apologize(ctx, chatID, userID, err)
	}
}

func (d *dispatcher) showNextCandidate(ctx context.Context, chatID, userID int64) {
	if _, err := d.profiles.Get(ctx, userID); err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			d.trySend(userID, d.bot.SendText(ctx, chatID, msgRegisterFirst))
		} else {
			d.apologize(ctx, chatID, userID, err)
		}
		return
	}

	candidate, err := d.browse.NextCandidate(ctx, userID)
	if err != nil {
		if errors.Is(err, browsesvc.ErrNoCandidates) || errors.Is(err, browsesvc.ErrNoPreferences) {
			d.trySend(userID, d.bot.SendText(ctx, chatID, msgNoProfiles))
		} else {
			d.apologize(ctx, chatID, userID, err)
		}
		return
	}

	card := candidateCardText(candidate.Name, candidate.Age, candidate.Gender, candidate.Location, candidate.Bio)
	rawID := strconv.FormatInt(candidate.UserID, 10)
	d.trySend(userID, d.bot.SendInline(ctx, chatID, card, []tginfra.InlineButton{
		{Label: "❌ Pass", Data: "pass_" + rawID},
		{Label: "❤️ Like", Data: "like_" + rawID},
	}))
}

func (d *dispatcher) showMatches(ctx context.Context, chatID, userID int64) {
	matched, err := d.matches.List(ctx, userID)
	if err != nil {
		d.apologize(ctx, chatID, userID, err)
		return
	}

	if len(matched) == 0 {
		d.trySend(userID, d.bot.SendText(ctx, chatID, msgNoMatches))
		return
	}
	d.trySend(userID, d.bot.SendText(ctx, chatID, matchListText(matched)))
}

func (d *dispatcher) notifyMatch(ctx context.Context, chatID, actorID, targetID int64) {
	target, err := d.profiles.Get(ctx, targetID)
	if err != nil {
		d.logger.Error("load matched profile failed", zap.Error(err), zap.Int64("user_id", targetID))
		return
	}
	d.trySend(actorID, d.bot.SendText(ctx, chatID, matchNotificationText(target.Name)))

	actor, err := d.profiles.Get(ctx, actorID)
	if err != nil {
		d.logger.Error("load own profile for match notice failed", zap.Error(err), zap.Int64("user_id", actorID))
		return
	}
	// Private chats share the user's id, so the counterpart is
	// reachable at their user id.
	d.trySend(targetID, d.bot.SendText(ctx, targetID, matchNotificationText(actor.Name)))
}

func (d *dispatcher) sendStepPrompt(ctx context.Context, chatID, userID int64, step session.Step) {
	prompt := onboardingPrompt(step)
	switch step {
	case session.StepGender:
		d.trySend(userID, d.bot.SendOneTimeMenu(ctx, chatID, prompt, genderOptions()))
	case session.StepLookingFor:
		d.trySend(userID, d.bot.SendOneTimeMenu(ctx, chatID, prompt, lookingForOptions()))
	case session.StepBio:
		d.trySend(userID, d.bot.SendTextRemoveKeyboard(ctx, chatID, prompt))
	default:
		d.trySend(userID, d.bot.SendText(ctx, chatID, prompt))
	}
}

func (d *dispatcher) apologize(ctx context.Context, chatID, userID int64, cause error) {
	d.logger.Error("handler failed", zap.Error(cause), zap.Int64("user_id", userID))
	if err := d.bot.SendText(ctx, chatID, msgSomethingWrong); err != nil {
		d.logger.Error("send apology failed", zap.Error(err), zap.Int64("user_id", userID))
	}
}

func (d *dispatcher) trySend(userID int64, err error) {
	if err != nil {
		d.logger.Error("send to telegram failed", zap.Error(err), zap.Int64("user_id", userID))
	}
}
