// Package server provides Connect RPC handlers for the conversion service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/at-ishikawa/olxmark/internal/extension"
	"github.com/at-ishikawa/olxmark/internal/olx"
)

//go:generate mockgen -source=conversion_handler.go -destination=../mocks/server/mock_converter.go -package=mock_server

const (
	ProcedureMakeOLX      = "/makeolx"
	ProcedureMakeHTML     = "/makehtml"
	ProcedureMakeMarkdown = "/makemarkdown"
	ProcedureUnescapeMD   = "/unescapemd"

	errorDomain = "olxmark"

	ReasonAssemblyFailed      = "OLX_ASSEMBLY_FAILED"
	ReasonExtensionLoadFailed = "EXTENSION_LOAD_FAILED"
)

// OLXConverter converts problem markdown to OLX.
type OLXConverter interface {
	Convert(markdown string) (string, error)
}

// MarkdownConverter converts between markdown and HTML.
type MarkdownConverter interface {
	MakeHTML(source string) (string, error)
	MakeMarkdown(source string) (string, error)
}

// MarkdownConverterFactory builds a MarkdownConverter for a request.
// Extensions are loaded by the factory, so a broken extension fails only the
// requests that need it.
type MarkdownConverterFactory interface {
	NewMarkdownConverter() (MarkdownConverter, error)
}

// ConversionHandler serves the conversion procedures. Requests and responses
// are JSON objects with a "content" string.
type ConversionHandler struct {
	olxConverter     OLXConverter
	markdownFactory  MarkdownConverterFactory
	unescapeMarkdown func(string) (string, error)
}

// NewConversionHandler creates a new ConversionHandler.
func NewConversionHandler(olxConverter OLXConverter, markdownFactory MarkdownConverterFactory) *ConversionHandler {
	return &ConversionHandler{
		olxConverter:     olxConverter,
		markdownFactory:  markdownFactory,
		unescapeMarkdown: olx.UnescapeCode,
	}
}

// Register mounts every procedure on mux.
func (h *ConversionHandler) Register(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(ProcedureMakeOLX, connect.NewUnaryHandler(ProcedureMakeOLX, h.MakeOLX, opts...))
	mux.Handle(ProcedureMakeHTML, connect.NewUnaryHandler(ProcedureMakeHTML, h.MakeHTML, opts...))
	mux.Handle(ProcedureMakeMarkdown, connect.NewUnaryHandler(ProcedureMakeMarkdown, h.MakeMarkdown, opts...))
	mux.Handle(ProcedureUnescapeMD, connect.NewUnaryHandler(ProcedureUnescapeMD, h.UnescapeMD, opts...))
}

// MakeOLX converts problem markdown to OLX.
func (h *ConversionHandler) MakeOLX(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	return h.convert(ctx, req.Msg, h.olxConverter.Convert)
}

// MakeHTML converts markdown to HTML.
func (h *ConversionHandler) MakeHTML(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	converter, err := h.newMarkdownConverter()
	if err != nil {
		return nil, err
	}
	return h.convert(ctx, req.Msg, converter.MakeHTML)
}

// MakeMarkdown converts HTML to markdown.
func (h *ConversionHandler) MakeMarkdown(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	converter, err := h.newMarkdownConverter()
	if err != nil {
		return nil, err
	}
	return h.convert(ctx, req.Msg, converter.MakeMarkdown)
}

// UnescapeMD restores the entities escaped inside code spans.
func (h *ConversionHandler) UnescapeMD(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	return h.convert(ctx, req.Msg, h.unescapeMarkdown)
}

func (h *ConversionHandler) newMarkdownConverter() (MarkdownConverter, error) {
	converter, err := h.markdownFactory.NewMarkdownConverter()
	if err == nil {
		return converter, nil
	}

	var loadErr *extension.LoadError
	if errors.As(err, &loadErr) {
		connectErr := connect.NewError(connect.CodeFailedPrecondition, err)
		addErrorInfo(connectErr, ReasonExtensionLoadFailed, map[string]string{"path": loadErr.Path})
		return nil, connectErr
	}
	return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("create markdown converter: %w", err))
}

func (h *ConversionHandler) convert(
	ctx context.Context,
	msg *structpb.Struct,
	conversion func(string) (string, error),
) (*connect.Response[structpb.Struct], error) {
	content, err := requestContent(msg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, connect.NewError(connect.CodeFromError(err), err)
	}

	out, err := conversion(content)
	if err != nil {
		return nil, conversionError(err)
	}

	return connect.NewResponse(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"content": structpb.NewStringValue(out),
		},
	}), nil
}

func requestContent(msg *structpb.Struct) (string, error) {
	value, ok := msg.GetFields()["content"]
	if ok {
		if s, isString := value.GetKind().(*structpb.Value_StringValue); isString {
			return s.StringValue, nil
		}
	}

	description := "content is required"
	if ok {
		description = "content must be a string"
	}
	connectErr := connect.NewError(connect.CodeInvalidArgument, errors.New(description))
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{
				Field:       "content",
				Description: description,
			},
		},
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return "", connectErr
}

func conversionError(err error) *connect.Error {
	var assemblyErr *olx.AssemblyError
	if errors.As(err, &assemblyErr) {
		connectErr := connect.NewError(connect.CodeInvalidArgument, err)
		addErrorInfo(connectErr, ReasonAssemblyFailed, map[string]string{
			"segment": strconv.Itoa(assemblyErr.Segment),
		})
		return connectErr
	}
	if errors.Is(err, olx.ErrAssembly) {
		connectErr := connect.NewError(connect.CodeInvalidArgument, err)
		addErrorInfo(connectErr, ReasonAssemblyFailed, nil)
		return connectErr
	}
	return connect.NewError(connect.CodeInternal, err)
}

func addErrorInfo(connectErr *connect.Error, reason string, metadata map[string]string) {
	if detail, detailErr := connect.NewErrorDetail(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   errorDomain,
		Metadata: metadata,
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
}
