package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed events
var schemasFS embed.FS

const (
	JobPostedEvent            = "JobPostedEvent"
	ApplicationSubmittedEvent = "ApplicationSubmittedEvent"
	VersionV1                 = "1.0.0"
)

var (
	compileOnce     sync.Once
	compiledSchemas map[string]*jsonschema.Schema
	compileErr      error
)

// Load компилирует все схемы из events/. Повторные вызовы возвращают результат первого.
func Load() error {
	compileOnce.Do(func() {
		compiledSchemas, compileErr = compileAll(schemasFS)
	})
	return compileErr
}

func compileAll(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	// сначала регистрируем все ресурсы, чтобы работали $ref между схемами
	err := fs.WalkDir(fsys, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk schemas: %w", err)
	}

	out := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		key := keyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("schema path %s does not match events/<name>/v<N>.json", path)
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", path, err)
		}
		out[key] = schema
	}
	return out, nil
}

// keyFromPath: "events/job-posted/v1.json" -> "JobPostedEvent/1.0.0"
func keyFromPath(path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "events/"), ".json")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Event")

	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(parts[1], "v"))
}

// ValidateEvent проверяет тело сообщения по схеме события eventType версии eventVersion
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	if err := Load(); err != nil {
		return err
	}
	schema, ok := compiledSchemas[eventType+"/"+eventVersion]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
