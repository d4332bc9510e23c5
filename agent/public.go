package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/etnz/fpa"
	"github.com/etnz/fpa/docs"
	"github.com/etnz/fpa/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name: "Facilitator",
		// Used by facilitators to know what they can expected from the expert
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is running a company and is here primarily to understand the monthly financials:
			how actuals compare to budget, where the money goes, and how long the cash lasts.

			Devise a plan of questions to ask to each experts and come up with the best reponse to the user's request.

			The user will assume that you know his books, check with the Controller first to understand what is in them.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher creates the expert for outside context, grounded on Google
// Search.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert researcher,
		very well aware of markets, benchmarks and the business press,
		about the latest news on companies, sectors and spending patterns.
		Ask the Researcher whenever you need recent or outside information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert researcher for a finance team, you can search and find about
			anything related to markets, competitors, benchmarks, typical spend ratios,
			hiring costs etc. You leverage Google Search to ground your assertions in a
			solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewController creates the expert in charge of the books found in dir.
func NewController(dir string) *Expert {
	lib := []Function{askTool(dir), statementTool(dir)}

	return &Expert{
		Name: "Controller",
		Description: `This is the Controller. It is in charge of reading the company's books:
		monthly actuals, budget, fx rates and cash balances.
		It can compute revenue, margins, opex, EBITDA and cash runway, actuals versus budget, in USD.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the controller in charge of the company's books.
				You know how to use the Tools to extract the figures about the company's monthly
				performance. You are part of a team of experts, yours is everything about the books.
				They might ask you approximative questions, pardon their language and figure out
				what they meant.

				Use the available tools to get
				  - one figure or comparison, with the Ask tool
				  - the full operating statement, with the Statement tool
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// askTool answers one free-form question against the books.
func askTool(dir string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Ask",
			Description: `Ask answers one question about the books: revenue, COGS, gross margin,
			opex breakdown, EBITDA, cash runway, actuals versus budget, monthly trends.

			` + must(docs.GetTopic("questions")),
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {
						Type:        genai.TypeString,
						Description: "The question, in plain english, months spelled out like 'June 2025'.",
					},
				},
				Required: []string{"question"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted answer with the requested figure.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			question, ok := args["question"].(string)
			if !ok {
				return failure(id, "Ask", fmt.Errorf("argument 'question' is not a string as expected but %T", args["question"]))
			}
			b, err := loadBooks(dir)
			if err != nil {
				return failure(id, "Ask", err)
			}
			return success(id, "Ask", renderer.AnswerMarkdown(b.Answer(question)))
		},
	}
}

// statementTool renders the full operating statement.
func statementTool(dir string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Statement",
			Description: `Statement renders the operating statement: revenue, COGS, gross profit
			and margin, opex by category, EBITDA, month by month in USD.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"month": {
						Type: genai.TypeString,
						Description: `The last month of the statement. The latest month with actuals is the default.

						` + must(docs.GetTopic("months")),
					},
					"months": {
						Type:        genai.TypeInteger,
						Description: "How many months the statement covers, 3 by default.",
					},
					"entity": {
						Type:        genai.TypeString,
						Description: "Restrict the statement to one entity. All entities by default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted operating statement.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			b, err := loadBooks(dir)
			if err != nil {
				return failure(id, "Statement", err)
			}

			end, ok := b.Actuals.Latest()
			if !ok {
				return failure(id, "Statement", fmt.Errorf("no actuals loaded"))
			}
			if arg, has := args["month"]; has {
				s, ok := arg.(string)
				if !ok {
					return failure(id, "Statement", fmt.Errorf("argument 'month' is not a string as expected but %T", arg))
				}
				end, err = fpa.ParseMonth(s)
				if err != nil {
					return failure(id, "Statement", fmt.Errorf("argument 'month' must be a valid month got %q. Below is the doc about the month format\n\n%s", s, must(docs.GetTopic("months"))))
				}
			}
			months := 3
			if arg, has := args["months"]; has {
				// json numbers land as float64
				f, ok := arg.(float64)
				if !ok || f < 1 {
					return failure(id, "Statement", fmt.Errorf("argument 'months' must be a positive number, got %v", arg))
				}
				months = int(f)
			}
			entity, _ := args["entity"].(string)

			st, err := fpa.NewStatement(b, fpa.LastN(end, months), entity)
			if err != nil {
				return failure(id, "Statement", err)
			}
			return success(id, "Statement", renderer.StatementMarkdown(st))
		},
	}
}

// loadBooks loads the four csv tables, an absent folder is empty books.
func loadBooks(dir string) (*fpa.Books, error) {
	b, err := fpa.Load(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return fpa.NewBooks(nil, nil, nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not load the books from %q: %w", dir, err)
	}
	return b, nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
