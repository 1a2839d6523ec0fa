package github

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/tkc/vibe-schedule/internal/table"
)

// ItemIDColumn はプロジェクトアイテムのIDを入れるカラム名
const ItemIDColumn = "Item ID"

// TitleColumn はProjectの組み込みタイトルフィールド名
const TitleColumn = "Title"

// itemsPageSize は1回のクエリで取得するアイテム数（API上限）
const itemsPageSize = 100

// ProjectField はProjectのカスタムフィールド
type ProjectField struct {
	ID       string
	Name     string
	DataType string        // TEXT, NUMBER, DATE, SINGLE_SELECT など
	Options  []FieldOption // Single Select用
}

// FieldOption はSingle Selectのオプション
type FieldOption struct {
	ID   string
	Name string
}

// TaskService はProjectのアイテムをタスク表として読み込む
type TaskService struct {
	client        *Client
	projectID     string
	projectNumber int
	fields        []ProjectField
}

// NewTaskService は新しいTaskServiceを作成する
func NewTaskService(client *Client, projectNumber int) *TaskService {
	return &TaskService{
		client:        client,
		projectNumber: projectNumber,
	}
}

// Initialize はProjectの情報を取得してサービスを初期化する
func (s *TaskService) Initialize(ctx context.Context) error {
	project, err := s.client.GetProjectByNumber(ctx, s.projectNumber)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}
	s.projectID = project.ID

	if err := s.loadFields(ctx); err != nil {
		return fmt.Errorf("failed to load fields: %w", err)
	}
	return nil
}

func (s *TaskService) loadFields(ctx context.Context) error {
	var query struct {
		Node struct {
			ProjectV2 struct {
				Fields struct {
					Nodes []struct {
						TypeName    string `graphql:"__typename"`
						FieldCommon struct {
							ID       string
							Name     string
							DataType string
						} `graphql:"... on ProjectV2FieldCommon"`
						SingleSelect struct {
							Options []struct {
								ID   string
								Name string
							}
						} `graphql:"... on ProjectV2SingleSelectField"`
					}
				} `graphql:"fields(first: 50)"`
			} `graphql:"... on ProjectV2"`
		} `graphql:"node(id: $projectId)"`
	}

	variables := map[string]interface{}{
		"projectId": githubv4.ID(s.projectID),
	}
	if err := s.client.gql.Query(ctx, &query, variables); err != nil {
		return err
	}

	s.fields = s.fields[:0]
	for _, f := range query.Node.ProjectV2.Fields.Nodes {
		field := ProjectField{
			ID:       f.FieldCommon.ID,
			Name:     f.FieldCommon.Name,
			DataType: f.FieldCommon.DataType,
		}
		if f.TypeName == "ProjectV2SingleSelectField" {
			for _, opt := range f.SingleSelect.Options {
				field.Options = append(field.Options, FieldOption{ID: opt.ID, Name: opt.Name})
			}
		}
		s.fields = append(s.fields, field)
	}
	return nil
}

// GetFields はProjectのフィールドを定義順で返す
func (s *TaskService) GetFields() []ProjectField {
	return s.fields
}

// Columns はタスク表のカラム名を返す
func (s *TaskService) Columns() []string {
	columns := []string{ItemIDColumn}
	for _, f := range s.fields {
		if f.Name == ItemIDColumn {
			continue
		}
		columns = append(columns, f.Name)
	}
	return columns
}

type fieldValueNode struct {
	TypeName     string                    `graphql:"__typename"`
	TextField    struct{ Text string }     `graphql:"... on ProjectV2ItemFieldTextValue"`
	NumberField  struct{ Number *float64 } `graphql:"... on ProjectV2ItemFieldNumberValue"`
	DateField    struct{ Date string }     `graphql:"... on ProjectV2ItemFieldDateValue"`
	SingleSelect struct{ Name string }     `graphql:"... on ProjectV2ItemFieldSingleSelectValue"`
	Field        struct {
		FieldCommon struct {
			Name string
		} `graphql:"... on ProjectV2FieldCommon"`
	} `graphql:"field"`
}

func (fv fieldValueNode) value() (any, bool) {
	switch fv.TypeName {
	case "ProjectV2ItemFieldTextValue":
		return fv.TextField.Text, true
	case "ProjectV2ItemFieldNumberValue":
		if fv.NumberField.Number == nil {
			return nil, true
		}
		return *fv.NumberField.Number, true
	case "ProjectV2ItemFieldDateValue":
		return fv.DateField.Date, true
	case "ProjectV2ItemFieldSingleSelectValue":
		return fv.SingleSelect.Name, true
	}
	return nil, false
}

type itemsQuery struct {
	Node struct {
		ProjectV2 struct {
			Items struct {
				PageInfo struct {
					HasNextPage bool
					EndCursor   githubv4.String
				}
				Nodes []struct {
					ID      string
					Content struct {
						Issue struct {
							Title string
						} `graphql:"... on Issue"`
						DraftIssue struct {
							Title string
						} `graphql:"... on DraftIssue"`
					}
					FieldValues struct {
						Nodes []fieldValueNode
					} `graphql:"fieldValues(first: 50)"`
				}
			} `graphql:"items(first: $first, after: $cursor)"`
		} `graphql:"... on ProjectV2"`
	} `graphql:"node(id: $projectId)"`
}

// Load はProjectの全アイテムをタスク表として読み込む
// Initialize を先に呼ぶこと
func (s *TaskService) Load(ctx context.Context) (*table.Table, error) {
	if s.projectID == "" {
		return nil, fmt.Errorf("task service is not initialized")
	}

	columns := s.Columns()
	tbl := table.New(fmt.Sprintf("project-%d", s.projectNumber), columns)

	variables := map[string]interface{}{
		"projectId": githubv4.ID(s.projectID),
		"first":     githubv4.Int(itemsPageSize),
		"cursor":    (*githubv4.String)(nil),
	}
	for {
		var query itemsQuery
		if err := s.client.gql.Query(ctx, &query, variables); err != nil {
			return nil, fmt.Errorf("failed to query items: %w", err)
		}

		for _, item := range query.Node.ProjectV2.Items.Nodes {
			record := map[string]any{ItemIDColumn: item.ID}
			for _, fv := range item.FieldValues.Nodes {
				if v, ok := fv.value(); ok {
					record[fv.Field.FieldCommon.Name] = v
				}
			}
			if table.IsBlank(record[TitleColumn]) {
				if item.Content.Issue.Title != "" {
					record[TitleColumn] = item.Content.Issue.Title
				} else if item.Content.DraftIssue.Title != "" {
					record[TitleColumn] = item.Content.DraftIssue.Title
				}
			}

			row := make([]any, len(columns))
			for i, c := range columns {
				row[i] = record[c]
			}
			tbl.Append(row)
		}

		page := query.Node.ProjectV2.Items.PageInfo
		if !page.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(page.EndCursor)
	}

	return tbl, nil
}
