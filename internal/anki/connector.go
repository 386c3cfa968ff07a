package anki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"codeberg.org/snonux/dictlookup/internal/config"
)

// version is the AnkiConnect protocol version spoken by the connector.
const version = 6

// NoteTag is attached to every note the connector adds.
const NoteTag = "goldendict"

const modelCSS = ".card { font-family: arial; font-size: 20px; text-align: center; color: black; background-color: white;}"

// Connector talks to one AnkiConnect endpoint.
type Connector struct {
	client *resty.Client
	cfg    config.AnkiConfig
	store  Store
	logger *zap.Logger

	mu      sync.Mutex
	checked bool
}

// NewConnector creates a connector for cfg. Ensured decks and models are
// looked up in and recorded to store.
func NewConnector(cfg config.AnkiConfig, store Store, logger *zap.Logger) *Connector {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &Connector{
		client: client,
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

type request struct {
	Action  string `json:"action"`
	Params  any    `json:"params,omitempty"`
	Version int    `json:"version"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke runs action and decodes its result into out when out is not nil.
func (c *Connector) invoke(ctx context.Context, action string, params, out any) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetBody(request{Action: action, Params: params, Version: version}).
		Post(c.cfg.ConnectURL)
	if err != nil {
		return &Error{Action: action, Err: fmt.Errorf("error connecting to AnkiConnect: %w", err)}
	}
	if res.StatusCode() != http.StatusOK {
		return &Error{Action: action, Err: fmt.Errorf("status code: %d, body: %s", res.StatusCode(), res.String())}
	}

	var r response
	if err := json.Unmarshal(res.Body(), &r); err != nil {
		return &Error{Action: action, Err: fmt.Errorf("invalid response: %w", err)}
	}
	if r.Error != nil && *r.Error != "" {
		return &Error{Action: action, Err: errors.New(*r.Error)}
	}
	if out == nil || len(r.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Result, out); err != nil {
		return &Error{Action: action, Err: fmt.Errorf("invalid result: %w", err)}
	}
	return nil
}

// AddNote adds one note and returns its id. The deck and model are
// created on first use.
func (c *Connector) AddNote(ctx context.Context, word, definition, sentence, sentenceTranslation string) (int64, error) {
	if err := c.ensure(ctx); err != nil {
		return 0, err
	}

	fields := make(map[string]string, len(c.cfg.Fields))
	for key, name := range c.cfg.Fields {
		switch key {
		case config.FieldText:
			fields[name] = word
		case config.FieldTranslation:
			fields[name] = definition
		case config.FieldContext:
			fields[name] = sentence
		case config.FieldContextTranslation:
			fields[name] = sentenceTranslation
		}
	}

	note := map[string]any{
		"deckName":  c.cfg.DeckName,
		"modelName": c.cfg.ModelName,
		"fields":    fields,
		"options":   map[string]any{"allowDuplicate": false},
		"tags":      []string{NoteTag},
	}

	var id int64
	if err := c.invoke(ctx, "addNote", map[string]any{"note": note}, &id); err != nil {
		return 0, err
	}
	c.logger.Info("note added", zap.String("word", word), zap.Int64("note_id", id))
	return id, nil
}

func (c *Connector) ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.checked {
		return nil
	}

	if err := c.ensureDeck(ctx); err != nil {
		return err
	}
	if err := c.ensureModel(ctx); err != nil {
		return err
	}
	c.checked = true
	return nil
}

func (c *Connector) ensureDeck(ctx context.Context) error {
	name := c.cfg.DeckName
	if ok, err := c.store.Has(ctx, KindDeck, name); err != nil {
		return err
	} else if ok {
		return nil
	}

	var decks []string
	if err := c.invoke(ctx, "deckNames", nil, &decks); err != nil {
		return err
	}
	if !slices.Contains(decks, name) {
		if err := c.invoke(ctx, "createDeck", map[string]any{"deck": name}, nil); err != nil {
			return err
		}
		c.logger.Info("deck created", zap.String("deck", name))
	}
	return c.store.Add(ctx, KindDeck, name)
}

func (c *Connector) ensureModel(ctx context.Context) error {
	name := c.cfg.ModelName
	if ok, err := c.store.Has(ctx, KindModel, name); err != nil {
		return err
	} else if ok {
		return nil
	}

	var models []string
	if err := c.invoke(ctx, "modelNames", nil, &models); err != nil {
		return err
	}
	if !slices.Contains(models, name) {
		params := map[string]any{
			"modelName":     name,
			"inOrderFields": c.modelFields(),
			"cardTemplates": []map[string]string{c.cardTemplate()},
			"css":           modelCSS,
		}
		if err := c.invoke(ctx, "createModel", params, nil); err != nil {
			return err
		}
		c.logger.Info("model created", zap.String("model", name))
	}
	return c.store.Add(ctx, KindModel, name)
}

// modelFields lists the mapped field names in a stable order.
func (c *Connector) modelFields() []string {
	var fields []string
	for _, key := range []string{config.FieldText, config.FieldTranslation, config.FieldContext, config.FieldContextTranslation} {
		if name, ok := c.cfg.Fields[key]; ok {
			fields = append(fields, name)
		}
	}
	return fields
}

func (c *Connector) cardTemplate() map[string]string {
	text := c.cfg.Fields[config.FieldText]
	front := fmt.Sprintf(`<div style="font-family: Arial; color: green; font-size: 30px;">{{%[1]s}}</div>
<div id="modifiedContext">{{%[2]s}}</div>
<script>
  var re = new RegExp("{{%[1]s}}", "ig");
  var el = document.getElementById("modifiedContext");
  el.innerHTML = el.innerHTML.replaceAll(re, "<strong>$&</strong>");
</script>`, text, c.cfg.Fields[config.FieldContext])
	back := fmt.Sprintf(`{{FrontSide}}
<div style="font-family: Arial; font-size: 14px; color: gray;">{{%s}}</div>
<hr id=answer>
{{%s}}
<br>
<a href="goldendict://{{%s}}">goldendict</a>`, c.cfg.Fields[config.FieldContextTranslation], c.cfg.Fields[config.FieldTranslation], text)

	return map[string]string{"Name": "Card 1", "Front": front, "Back": back}
}
