// Package provider implements the text-understanding capability on the
// OpenAI Responses API with strict JSON-schema structured output.
package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/theimaginaryfoundation/sliding-summarizer/pipeline"
)

// Client is the production pipeline.Capability. The summarize/merge calls use
// the small-context model; the final analysis uses the (typically larger)
// analysis model.
type Client struct {
	client        *openai.Client
	model         string
	analysisModel string
}

// New builds a capability client. analysisModel defaults to model.
func New(apiKey, model, analysisModel string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("provider: api key is empty")
	}
	if model == "" {
		return nil, errors.New("provider: model is empty")
	}
	if analysisModel == "" {
		analysisModel = model
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		client:        &client,
		model:         model,
		analysisModel: analysisModel,
	}, nil
}

// Model returns the small-context model identifier.
func (c *Client) Model() string { return c.model }

var summarySchema = generateSchema[pipeline.Summary]()
var analysisSchema = generateSchema[pipeline.AnalysisReport]()

func (c *Client) SummarizeChunk(ctx context.Context, previousSummary string, chunkText string) (pipeline.Summary, error) {
	input := buildSummarizeInput(previousSummary, chunkText)
	return c.callForSummary(ctx, summarizeChunkPrompt, input, 2500)
}

func (c *Client) MergeSummaries(ctx context.Context, summaries []pipeline.Summary) (pipeline.Summary, error) {
	input, err := buildMergeInput(summaries)
	if err != nil {
		return pipeline.Summary{}, err
	}
	return c.callForSummary(ctx, mergeSummariesPrompt, input, 2500)
}

func (c *Client) AnalyzeSummary(ctx context.Context, finalSummary pipeline.Summary, originalMetadata string) (pipeline.AnalysisReport, error) {
	input, err := buildAnalyzeInput(finalSummary, originalMetadata)
	if err != nil {
		return pipeline.AnalysisReport{}, err
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "AnalysisReport",
			Schema:      analysisSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Document analysis report JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           c.analysisModel,
		MaxOutputTokens: openai.Int(4500),
		Instructions:    openai.String(analyzeSummaryPrompt),
		ServiceTier:     responses.ResponseNewParamsServiceTierFlex,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := callWithRetry(ctx, c.client, params)
	if err != nil {
		return pipeline.AnalysisReport{}, err
	}

	var out pipeline.AnalysisReport
	if err := decodeModelJSON(resp.OutputText(), &out); err != nil {
		return pipeline.AnalysisReport{}, err
	}
	out.ExecutiveSummary = strings.TrimSpace(out.ExecutiveSummary)
	if out.Metadata.ModelUsed == "" {
		out.Metadata.ModelUsed = c.analysisModel
	}
	return out, nil
}

func (c *Client) callForSummary(ctx context.Context, instructions, input string, maxOut int64) (pipeline.Summary, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "Summary",
			Schema:      summarySchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Structured summary JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(maxOut),
		Instructions:    openai.String(instructions),
		ServiceTier:     responses.ResponseNewParamsServiceTierFlex,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := callWithRetry(ctx, c.client, params)
	if err != nil {
		return pipeline.Summary{}, err
	}

	var out pipeline.Summary
	if err := decodeModelJSON(resp.OutputText(), &out); err != nil {
		return pipeline.Summary{}, err
	}
	out.Summary = strings.TrimSpace(out.Summary)
	return out, nil
}
