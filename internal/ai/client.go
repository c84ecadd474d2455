package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ignatzorin/odyssey-backend/internal/pkg/retry"
)

const (
	// MoodMessagePrompt - фиксированный запрос для генерации фразы о настроении.
	MoodMessagePrompt = "Help me to generate a random easy-to-understand sentence to describe my mood."
	// MoodImagePromptPrefix дополняется текстом фразы.
	MoodImagePromptPrefix = "some tourist spot that reflect my mood which is "

	maxMessageTokens = 50
	maxTemperature   = 2.0
)

// Слова, при которых модель отвечает "о себе", а не фразу о настроении.
var rejectedWords = []string{"AI", "computer"}

var errRejectedMessage = errors.New("ai: модель вернула неподходящую фразу")

// Options - параметры генератора.
type Options struct {
	APIKey       string
	Organization string
	BaseURL      string

	MessageModel string
	Temperature  float64
	ImageModel   string
	ImageSize    string

	MessagePolicy retry.Policy
	ImagePolicy   retry.Policy
}

// GeneratedText - результат генерации фразы.
type GeneratedText struct {
	Content string
	Prompt  string
	Model   string
}

// GeneratedImage - результат генерации картинки. URL временный, принадлежит генератору.
type GeneratedImage struct {
	URL    string
	Size   string
	Prompt string
}

// Client генерирует фразы и картинки через OpenAI API.
type Client struct {
	api  openai.Client
	opts Options
}

// NewClient создаёт экземпляр клиента. Повторы делает retry.Do, поэтому внутренние повторы SDK отключены.
func NewClient(opts Options) *Client {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.Organization != "" {
		reqOpts = append(reqOpts, option.WithOrganization(opts.Organization))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	if opts.Temperature > maxTemperature {
		opts.Temperature = maxTemperature
	}

	return &Client{
		api:  openai.NewClient(reqOpts...),
		opts: opts,
	}
}

// GenerateMoodMessage запрашивает у модели короткую фразу о настроении.
func (c *Client) GenerateMoodMessage(ctx context.Context) (GeneratedText, error) {
	return retry.Do(ctx, c.opts.MessagePolicy, "openai chat", func(ctx context.Context) (GeneratedText, error) {
		resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(c.opts.MessageModel),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(MoodMessagePrompt),
			},
			MaxTokens:   openai.Int(maxMessageTokens),
			Temperature: openai.Float(c.opts.Temperature),
		})
		if err != nil {
			return GeneratedText{}, err
		}
		if len(resp.Choices) == 0 {
			return GeneratedText{}, errors.New("ai: пустой ответ модели")
		}

		content, err := cleanMoodMessage(resp.Choices[0].Message.Content)
		if err != nil {
			return GeneratedText{}, err
		}

		return GeneratedText{
			Content: content,
			Prompt:  MoodMessagePrompt,
			Model:   c.opts.MessageModel,
		}, nil
	})
}

// GenerateMoodImage генерирует одну картинку по тексту фразы.
func (c *Client) GenerateMoodImage(ctx context.Context, moodText string) (GeneratedImage, error) {
	prompt := MoodImagePromptPrefix + moodText

	return retry.Do(ctx, c.opts.ImagePolicy, "openai images", func(ctx context.Context) (GeneratedImage, error) {
		resp, err := c.api.Images.Generate(ctx, openai.ImageGenerateParams{
			Prompt:         prompt,
			Model:          openai.ImageModel(c.opts.ImageModel),
			N:              openai.Int(1),
			Size:           openai.ImageGenerateParamsSize(c.opts.ImageSize),
			ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
		})
		if err != nil {
			return GeneratedImage{}, err
		}
		if len(resp.Data) == 0 || resp.Data[0].URL == "" {
			return GeneratedImage{}, errors.New("ai: генератор не вернул ссылку на картинку")
		}

		return GeneratedImage{
			URL:    resp.Data[0].URL,
			Size:   c.opts.ImageSize,
			Prompt: prompt,
		}, nil
	})
}

// cleanMoodMessage убирает кавычки вокруг фразы и отбраковывает ответы "о себе".
func cleanMoodMessage(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	content = strings.Trim(content, "\"'“”")
	content = strings.TrimSpace(content)

	if content == "" {
		return "", errRejectedMessage
	}
	for _, word := range rejectedWords {
		if strings.Contains(content, word) {
			return "", errRejectedMessage
		}
	}
	return content, nil
}
