package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/theimaginaryfoundation/kingdom-journeys/journey"
)

// DefaultMaxOutputTokens bounds one journey response.
const DefaultMaxOutputTokens = 4000

// NewClient builds an OpenAI client with SDK retries disabled: a failed generation is
// terminal and only the user retries.
func NewClient(apiKey string, opts ...option.RequestOption) openai.Client {
	all := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return openai.NewClient(all...)
}

// ResolveAPIKey returns flagValue, else OPENAI_API_KEY, else API_KEY, read through getenv.
func ResolveAPIKey(flagValue string, getenv func(string) string) string {
	if flagValue != "" {
		return flagValue
	}
	for _, name := range []string{"OPENAI_API_KEY", "API_KEY"} {
		if v := getenv(name); v != "" {
			return v
		}
	}
	return ""
}

var journeySchema = GenerateSchema[journey.Journey]()

// OpenAI implements journey.Completer on the Responses API with a strict JSON schema
// reflected from journey.Journey.
type OpenAI struct {
	client          *openai.Client
	model           string
	maxOutputTokens int64
}

// NewOpenAI returns a completer for model. maxOutputTokens <= 0 uses DefaultMaxOutputTokens.
func NewOpenAI(client *openai.Client, model string, maxOutputTokens int64) *OpenAI {
	if maxOutputTokens <= 0 {
		maxOutputTokens = DefaultMaxOutputTokens
	}
	return &OpenAI{client: client, model: model, maxOutputTokens: maxOutputTokens}
}

func (o *OpenAI) Complete(ctx context.Context, instructions, input string) (string, error) {
	if o.client == nil {
		return "", fmt.Errorf("%w: provider.OpenAI: client is nil", journey.ErrTransport)
	}
	if o.model == "" {
		return "", fmt.Errorf("%w: provider.OpenAI: model is empty", journey.ErrTransport)
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "VisitorJourney",
			Schema:      journeySchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Visitor journey JSON: one persona and its chronological stages"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(o.maxOutputTokens),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w (%s): %w", journey.ErrTransport, TransportReason(err), err)
	}
	return resp.OutputText(), nil
}

// Unavailable is a completer that fails every call, used when no API key is configured
// so the page can still render its error state.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Complete(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: %s", journey.ErrTransport, u.Reason)
}

// TransportReason classifies a failed call for logs.
func TransportReason(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return "rate_limited"
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return "unauthorized"
		case apiErr.StatusCode >= 500:
			return "server_error"
		default:
			return fmt.Sprintf("status_%d", apiErr.StatusCode)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "network"
}

func GenerateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureOpenAICompliance(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

// ensureOpenAICompliance makes every object closed and every property required, which
// strict structured outputs demand.
func ensureOpenAICompliance(schema map[string]interface{}) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
			requiredFields := make([]string, 0, len(properties))
			for propName := range properties {
				requiredFields = append(requiredFields, propName)
			}
			sort.Strings(requiredFields)
			if len(requiredFields) > 0 {
				schema[requiredKey] = requiredFields
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				ensureOpenAICompliance(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		ensureOpenAICompliance(items)
	}
}
