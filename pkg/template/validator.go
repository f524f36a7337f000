// Package template validates ARM template files and resource spec
// documents before deployment.
//
// Features:
//  1. Structural validation of ARM JSON templates
//  2. Validation of YAML resource specs via the typed resource models
//  3. Directory walking with per-file results
package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/flavioaiello/armcheck/pkg/errcatalog"
	"github.com/flavioaiello/armcheck/pkg/resources"
	"github.com/flavioaiello/armcheck/pkg/validation"
)

// ErrUnknownKind marks a resource spec whose kind has no registered model.
var ErrUnknownKind = errors.New("unknown resource kind")

// FileResult pairs a validated file with its findings.
type FileResult struct {
	Path   string            `json:"path"`
	Result validation.Result `json:"result"`
}

// Validator validates template and resource spec files.
type Validator struct {
	logger *zap.Logger
}

// NewValidator creates a new validator.
func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{
		logger: logger,
	}
}

// ValidateFile validates a single file by extension: .json as an ARM
// template, .yaml/.yml as a resource spec.
func (v *Validator) ValidateFile(ctx context.Context, path string) (validation.Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return v.ValidateTemplateFile(ctx, path)
	case ".yaml", ".yml":
		return v.ValidateSpecFile(ctx, path)
	default:
		builder := validation.NewBuilder()
		builder.AddWarning(
			fmt.Sprintf("unknown file type %s", filepath.Ext(path)),
			validation.WithResourceID(path),
		)
		return builder.Build(), nil
	}
}

// ValidateTemplateFile validates the structure of an ARM JSON template.
func (v *Validator) ValidateTemplateFile(_ context.Context, path string) (validation.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return validation.Result{}, fmt.Errorf("failed to read file: %w", err)
	}
	return v.ValidateTemplate(data, filepath.Base(path)), nil
}

// ValidateTemplate validates raw ARM template JSON. templateName is
// used in messages only.
func (v *Validator) ValidateTemplate(data []byte, templateName string) validation.Result {
	builder := validation.NewBuilder()

	var template map[string]interface{}
	if err := json.Unmarshal(data, &template); err != nil {
		builder.AddError(
			fmt.Sprintf("JSON parse error: %v", err),
			validation.WithResourceID(templateName),
		)
		return builder.Build()
	}

	if _, ok := template["$schema"]; !ok {
		addCatalogIssue(builder, "ARM001", nil, "$schema")
	}
	if _, ok := template["contentVersion"]; !ok {
		addCatalogIssue(builder, "ARM002", nil, "contentVersion")
	}

	rawResources, ok := template["resources"].([]interface{})
	if !ok || len(rawResources) == 0 {
		addCatalogIssue(builder, "ARM003", map[string]string{"templateName": templateName}, "resources")
		return builder.Build()
	}

	for i, raw := range rawResources {
		resource, ok := raw.(map[string]interface{})
		if !ok {
			builder.AddError(
				fmt.Sprintf("resource at index %d is not an object", i),
				validation.WithPropertyPath(fmt.Sprintf("resources[%d]", i)),
			)
			continue
		}
		v.validateTemplateResource(builder, resource, i)
	}

	return builder.Build()
}

// validateTemplateResource checks one resource declaration.
func (v *Validator) validateTemplateResource(builder *validation.Builder, resource map[string]interface{}, index int) {
	path := fmt.Sprintf("resources[%d]", index)

	name, _ := resource["name"].(string)
	if name == "" {
		name = path
	}

	resourceType, _ := resource["type"].(string)
	switch {
	case resourceType == "":
		addCatalogIssue(builder, "SCHEMA001", map[string]string{
			"property":     "type",
			"resourceType": "template resource",
		}, path+".type")
	case !strings.Contains(resourceType, "/"):
		addCatalogIssue(builder, "ARM004", map[string]string{
			"resourceType": resourceType,
		}, path+".type")
	}

	if _, ok := resource["apiVersion"]; !ok {
		addCatalogIssue(builder, "ARM005", map[string]string{
			"resourceName": name,
		}, path+".apiVersion")
	}

	if _, ok := resource["name"]; !ok {
		addCatalogIssue(builder, "SCHEMA001", map[string]string{
			"property":     "name",
			"resourceType": resourceType,
		}, path+".name")
	}
}

// addCatalogIssue records a catalog-backed finding as a soft issue,
// keeping message and suggestion wording identical to the hard path.
func addCatalogIssue(builder *validation.Builder, code string, ctx map[string]string, propertyPath string) {
	ce := errcatalog.New(code, ctx)
	opts := []validation.IssueOption{
		validation.WithPropertyPath(propertyPath),
		validation.WithDetails(ce.Code),
		validation.WithSuggestion(ce.Suggestion),
	}
	switch ce.Severity {
	case validation.SeverityWarning:
		builder.AddWarning(ce.Message, opts...)
	case validation.SeverityInfo:
		builder.AddInfo(ce.Message, opts...)
	default:
		builder.AddError(ce.Message, opts...)
	}
}

// specDocument is the envelope of a YAML resource spec.
type specDocument struct {
	Kind     string `yaml:"kind"`
	Metadata struct {
		Name string `yaml:"name"`
	} `yaml:"metadata"`
	Spec yaml.Node `yaml:"spec"`
}

// ValidateSpecFile validates a YAML resource spec document: envelope
// structure first, then the typed model registered for its kind.
func (v *Validator) ValidateSpecFile(_ context.Context, path string) (validation.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return validation.Result{}, fmt.Errorf("failed to read file: %w", err)
	}

	builder := validation.NewBuilder()

	var doc specDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		builder.AddError(
			fmt.Sprintf("YAML parse error: %v", err),
			validation.WithResourceID(path),
		)
		return builder.Build(), nil
	}

	if doc.Kind == "" {
		addCatalogIssue(builder, "SCHEMA001", map[string]string{
			"property":     "kind",
			"resourceType": "resource spec",
		}, "kind")
	}
	if doc.Metadata.Name == "" {
		addCatalogIssue(builder, "SCHEMA001", map[string]string{
			"property":     "metadata.name",
			"resourceType": "resource spec",
		}, "metadata.name")
	}
	if doc.Spec.IsZero() {
		addCatalogIssue(builder, "SCHEMA001", map[string]string{
			"property":     "spec",
			"resourceType": "resource spec",
		}, "spec")
		return builder.Build(), nil
	}

	if doc.Kind == "" {
		return builder.Build(), nil
	}

	resource, err := newResourceForKind(doc.Kind)
	if err != nil {
		v.logger.Warn("No model registered for kind",
			zap.String("path", path),
			zap.String("kind", doc.Kind),
		)
		builder.AddWarning(
			fmt.Sprintf("kind %s has no registered validation model", doc.Kind),
			validation.WithPropertyPath("kind"),
		)
		return builder.Build(), nil
	}

	if err := doc.Spec.Decode(resource); err != nil {
		builder.AddError(
			fmt.Sprintf("spec does not match the %s model: %v", doc.Kind, err),
			validation.WithPropertyPath("spec"),
		)
		return builder.Build(), nil
	}

	if err := resource.ValidateProps(); err != nil {
		var ce *errcatalog.ValidationError
		if errors.As(err, &ce) {
			builder.AddError(
				ce.Message,
				validation.WithDetails(ce.Code),
				validation.WithSuggestion(ce.Suggestion),
				validation.WithResourceID(doc.Metadata.Name),
			)
		} else {
			builder.AddError(err.Error(), validation.WithResourceID(doc.Metadata.Name))
		}
	}

	builder.Merge(resource.ValidateARMStructure())
	return builder.Build(), nil
}

// newResourceForKind maps a spec kind to its property model.
func newResourceForKind(kind string) (resources.Resource, error) {
	switch kind {
	case "VirtualNetwork":
		return &resources.VirtualNetworkProps{}, nil
	case "NetworkSecurityGroup":
		return &resources.NetworkSecurityGroupProps{}, nil
	case "SqlServer":
		return &resources.SqlServerProps{}, nil
	case "ApplicationInsights":
		return &resources.ApplicationInsightsProps{}, nil
	case "ActionGroup":
		return &resources.ActionGroupProps{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// ValidateDirectory validates every template and spec file under dir.
func (v *Validator) ValidateDirectory(ctx context.Context, dir string) ([]FileResult, error) {
	var results []FileResult

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			return nil
		}

		if !isValidatableFile(path) {
			return nil
		}

		result, err := v.ValidateFile(ctx, path)
		if err != nil {
			v.logger.Warn("Failed to validate file",
				zap.String("path", path),
				zap.Error(err),
			)
			return nil
		}

		results = append(results, FileResult{Path: path, Result: result})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return results, nil
}

func isValidatableFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
