// Package openai drives an LLM span's lifecycle around a streaming or
// non-streaming OpenAI-shaped client response, without importing the
// vendor SDK. Grounded on original_source/sdk-py/src/axonize/integrations/openai.py
// (wrap completion/stream, duck-typed attribute access on the response
// object).
package openai

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/Streamize-llc/axonize/ddtrace/tracer"
)

// WrapCompletion drives a single non-streaming call: it opens an LLM
// span, invokes fn, extracts prompt/completion token counts from the
// response via reflection (matching the `Usage.PromptTokens` /
// `Usage.CompletionTokens` shape common to OpenAI-compatible SDKs), sets
// them on the span, and closes it exactly once regardless of outcome.
func WrapCompletion(parent *tracer.Span, model string, fn func() (any, error)) (any, error) {
	span := tracer.StartLLMSpan("openai.completion", parent)
	span.SetModel(model, "")

	resp, err := fn()
	if err != nil {
		span.Finish(err)
		return resp, err
	}
	if promptTokens, completionTokens, ok := extractUsage(resp); ok {
		span.SetTokensInput(promptTokens)
		span.SetTokensOutput(completionTokens)
	}
	span.Finish(nil)
	return resp, nil
}

// WrapStream drives a streaming response's lifecycle: it opens an LLM
// span, then repeatedly calls stream's Recv method (discovered via
// reflection, so no vendor streaming type needs to literally implement a
// declared Go interface), calling RecordToken for every chunk whose
// extracted content is non-empty. The span closes exactly once, on
// stream end (io.EOF) or on any other error, and Close is always called
// on the stream value if present.
func WrapStream(parent *tracer.Span, model string, stream any) error {
	span := tracer.StartLLMSpan("openai.stream", parent)
	span.SetModel(model, "")

	v := reflect.ValueOf(stream)
	defer closeIfPresent(v)
	recv := v.MethodByName("Recv")
	if !recv.IsValid() {
		err := fmt.Errorf("openai: stream value %T has no Recv method", stream)
		span.Finish(err)
		return err
	}

	for {
		out := recv.Call(nil)
		if len(out) != 2 {
			err := fmt.Errorf("openai: Recv must return (chunk, error), got %d values", len(out))
			span.Finish(err)
			return err
		}
		if recvErr, ok := out[1].Interface().(error); ok && recvErr != nil {
			if errors.Is(recvErr, io.EOF) {
				span.Finish(nil)
				return nil
			}
			span.Finish(recvErr)
			return recvErr
		}
		if content, ok := extractContent(out[0].Interface()); ok && content != "" {
			span.RecordToken()
		}
	}
}

func closeIfPresent(v reflect.Value) {
	closeM := v.MethodByName("Close")
	if !closeM.IsValid() {
		return
	}
	closeM.Call(nil)
}

// extractContent finds the text delta on a streaming chunk, matching the
// `Choices[0].Delta.Content` shape (go-openai) or `Choices[0].Text`
// (legacy completion endpoints).
func extractContent(chunk any) (string, bool) {
	v := indirect(reflect.ValueOf(chunk))
	if v.Kind() != reflect.Struct {
		return "", false
	}
	choices := v.FieldByName("Choices")
	if !choices.IsValid() || choices.Kind() != reflect.Slice || choices.Len() == 0 {
		return "", false
	}
	choice := indirect(choices.Index(0))
	if !choice.IsValid() {
		return "", false
	}
	if delta := indirect(choice.FieldByName("Delta")); delta.IsValid() && delta.Kind() == reflect.Struct {
		if content := delta.FieldByName("Content"); content.IsValid() && content.Kind() == reflect.String {
			return content.String(), true
		}
	}
	if text := choice.FieldByName("Text"); text.IsValid() && text.Kind() == reflect.String {
		return text.String(), true
	}
	return "", false
}

// extractUsage finds prompt/completion token counts, matching the
// `Usage.PromptTokens` / `Usage.CompletionTokens` shape.
func extractUsage(resp any) (promptTokens, completionTokens int64, ok bool) {
	v := indirect(reflect.ValueOf(resp))
	if v.Kind() != reflect.Struct {
		return 0, 0, false
	}
	usage := indirect(v.FieldByName("Usage"))
	if !usage.IsValid() || usage.Kind() != reflect.Struct {
		return 0, 0, false
	}
	pt := usage.FieldByName("PromptTokens")
	ct := usage.FieldByName("CompletionTokens")
	if !pt.IsValid() || !ct.IsValid() {
		return 0, 0, false
	}
	return toInt64(pt), toInt64(ct), true
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func toInt64(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return 0
	}
}
