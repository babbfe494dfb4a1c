package lsp

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"sol2ink/grammar"
	"sol2ink/internal/ast"
	sterrors "sol2ink/internal/errors"
	"sol2ink/internal/pipeline"
)

var log = commonlog.GetLogger("sol2ink.lsp")

// Define the set of supported semantic token types (as required by the protocol)
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"enumMember",
	"event",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"modifier",
}

// Define the set of supported semantic token modifiers (for extra tagging like declaration, readonly, etc.)
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
	"deprecated",
	"abstract",
}

// Handler implements the LSP server handlers for Solidity sources. Every
// open document is parsed and translated on change; translation diagnostics
// are published back to the editor.
type Handler struct {
	mu         sync.RWMutex
	content    map[string]string
	units      map[string]*ast.SourceUnit
	translator *pipeline.Translator
}

// NewHandler creates a handler translating with the given translator
func NewHandler(translator *pipeline.Translator) *Handler {
	return &Handler{
		content:    make(map[string]string),
		units:      make(map[string]*ast.SourceUnit),
		translator: translator,
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange handles file change notifications from the editor.
// Only full-document sync is advertised, so the last change holds the text.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)

	for i := len(params.ContentChanges) - 1; i >= 0; i-- {
		if whole, ok := params.ContentChanges[i].(protocol.TextDocumentContentChangeEventWhole); ok {
			return h.update(ctx, params.TextDocument.URI, whole.Text)
		}
	}
	return nil
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.units, path)
	return nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	rawURI := params.TextDocument.URI
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	unit, ok := h.units[path]
	source := h.content[path]
	h.mu.RUnlock()

	if !ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read file %s", path)
		}
		if err := h.update(ctx, rawURI, string(content)); err != nil {
			return nil, err
		}
		h.mu.RLock()
		unit, source = h.units[path], h.content[path]
		h.mu.RUnlock()
	}

	return &protocol.SemanticTokens{Data: encodeTokens(collectSemanticTokens(unit, source))}, nil
}

// update parses and translates a document, then publishes its diagnostics.
// The last unit that parsed is kept for semantic tokens.
func (h *Handler) update(ctx *glsp.Context, rawURI protocol.DocumentUri, source string) error {
	path, err := uriToPath(rawURI)
	if err != nil {
		return err
	}

	diags, unit, err := h.check(path, source)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if unit != nil {
		h.content[path] = source
		h.units[path] = unit
	}
	h.mu.Unlock()

	publishDiagnostics(ctx, rawURI, ConvertDiagnostics(diags))
	return nil
}

func (h *Handler) check(path, source string) ([]sterrors.CompilerError, *ast.SourceUnit, error) {
	unit, diags, err := grammar.Parse(path, source)
	if err != nil || unit == nil {
		return diags, nil, err
	}

	results, err := h.translator.TranslateAll(context.Background(), unit)
	if err != nil {
		return nil, nil, err
	}
	for _, res := range results {
		diags = append(diags, res.Diagnostics...)
	}
	return dedupe(diags), unit, nil
}

// dedupe drops diagnostics repeated by contracts sharing a base
func dedupe(diags []sterrors.CompilerError) []sterrors.CompilerError {
	seen := make(map[string]bool)
	out := diags[:0]
	for _, d := range diags {
		key := d.Error()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", errors.Wrapf(err, "invalid URI %s", rawURI)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...)
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
