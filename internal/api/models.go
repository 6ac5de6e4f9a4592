package api

import (
	"time"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/markdown"
	"github.com/aicms/aicms-api/internal/service"
)

// GoogleLoginRequest is the body of POST /api/user/auth/google.
type GoogleLoginRequest struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// UserProfileResponse is the public view of the signed-in user.
type UserProfileResponse struct {
	UserID     string     `json:"userId"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	ProfileURL string     `json:"profileUrl"`
	Role       string     `json:"role"`
	SignUpType string     `json:"signUpType"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// UsageStatsResponse summarizes the user's content.
type UsageStatsResponse struct {
	TotalContent       int64            `json:"totalContent"`
	EditedContent      int64            `json:"editedContent"`
	RegeneratedContent int64            `json:"regeneratedContent"`
	ByCategory         map[string]int64 `json:"byCategory"`
	ByTemplate         map[string]int64 `json:"byTemplate"`
}

// TemplateResponse is one entry of the template list.
type TemplateResponse struct {
	TemplateID  string `json:"templateId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// GenerateContentRequest is the body of POST generate-content.
type GenerateContentRequest struct {
	TemplateID string `json:"templateId" validate:"required"`
	UserInput  string `json:"userInput" validate:"required"`
}

// RegenerateContentRequest is the body of POST regenerate-content.
type RegenerateContentRequest struct {
	ContentID string `json:"contentId" validate:"required"`
	UserInput string `json:"userInput" validate:"required"`
}

// EditContentRequest is the body of POST edit-content. Absent fields are left
// unchanged; an empty array clears keywords or tags.
type EditContentRequest struct {
	ContentID string   `json:"contentId" validate:"required"`
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Category  *string  `json:"category"`
	Keywords  []string `json:"keywords"`
	Tags      []string `json:"tags"`
}

// Patch converts the request to a domain.ContentPatch.
func (r EditContentRequest) Patch() domain.ContentPatch {
	return domain.ContentPatch{
		Title:       r.Title,
		MainContent: r.Content,
		Category:    r.Category,
		Keywords:    r.Keywords,
		Tags:        r.Tags,
	}
}

// TemplateDetails names the template a record was generated from.
type TemplateDetails struct {
	TemplateID string `json:"templateId"`
	Name       string `json:"name"`
}

// ContentSummaryResponse is one item of the content list.
type ContentSummaryResponse struct {
	ContentID       string          `json:"contentId"`
	UserID          string          `json:"userId"`
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Category        string          `json:"category"`
	Keywords        []string        `json:"keywords"`
	Tags            []string        `json:"tags"`
	AIProvider      string          `json:"aiProvider"`
	TemplateDetails TemplateDetails `json:"templateDetails"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ContentResponse is the full view of one record.
type ContentResponse struct {
	ContentSummaryResponse
	TemplateID    string    `json:"templateId"`
	Prompt        string    `json:"prompt"`
	WholeContent  string    `json:"wholeContent"`
	IsEdited      bool      `json:"isEdited"`
	IsRegenerated bool      `json:"isRegenerated"`
	IsDeleted     bool      `json:"isDeleted"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ContentDetailResponse adds the rendered body to ContentResponse.
type ContentDetailResponse struct {
	ContentResponse
	ContentHTML string `json:"contentHtml"`
}

// ContentListResponse is one page of the content list.
type ContentListResponse struct {
	Items       []ContentSummaryResponse `json:"items"`
	CurrentPage int                      `json:"currentPage"`
	TotalPages  int                      `json:"totalPages"`
	TotalItems  int64                    `json:"totalItems"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func userToResponse(user *domain.User) UserProfileResponse {
	return UserProfileResponse{
		UserID:     user.PublicID,
		Name:       user.Name,
		Email:      user.Email,
		ProfileURL: user.ProfileURL,
		Role:       string(user.Role),
		SignUpType: user.SignUpType,
		LastLogin:  user.LastLogin,
		CreatedAt:  user.CreatedAt,
	}
}

func statsToResponse(stats *domain.UsageStats) UsageStatsResponse {
	resp := UsageStatsResponse{
		TotalContent:       stats.TotalContent,
		EditedContent:      stats.EditedContent,
		RegeneratedContent: stats.RegeneratedContent,
		ByCategory:         stats.ByCategory,
		ByTemplate:         stats.ByTemplate,
	}
	if resp.ByCategory == nil {
		resp.ByCategory = map[string]int64{}
	}
	if resp.ByTemplate == nil {
		resp.ByTemplate = map[string]int64{}
	}
	return resp
}

func templatesToResponse(templates []*domain.Template) []TemplateResponse {
	resp := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, TemplateResponse{
			TemplateID:  t.PublicID,
			Name:        t.Name,
			Description: t.Description,
		})
	}
	return resp
}

// contentToSummary reports ownerID as the user ID; records are only ever
// returned to their owner.
func contentToSummary(c *domain.Content, ownerID string) ContentSummaryResponse {
	return ContentSummaryResponse{
		ContentID:  c.PublicID,
		UserID:     ownerID,
		Title:      c.Parsed.Title,
		Content:    c.Parsed.MainContent,
		Category:   c.Parsed.Category,
		Keywords:   nonNil(c.Parsed.Keywords),
		Tags:       nonNil(c.Parsed.Tags),
		AIProvider: c.AIProvider,
		TemplateDetails: TemplateDetails{
			TemplateID: c.TemplateID,
			Name:       c.TemplateName,
		},
		CreatedAt: c.CreatedAt,
	}
}

func contentToResponse(c *domain.Content, ownerID string) ContentResponse {
	return ContentResponse{
		ContentSummaryResponse: contentToSummary(c, ownerID),
		TemplateID:             c.TemplateID,
		Prompt:                 c.Prompt,
		WholeContent:           c.WholeContent,
		IsEdited:               c.IsEdited,
		IsRegenerated:          c.IsRegenerated,
		IsDeleted:              c.IsDeleted,
		UpdatedAt:              c.UpdatedAt,
	}
}

func contentToDetail(c *domain.Content, ownerID string) ContentDetailResponse {
	return ContentDetailResponse{
		ContentResponse: contentToResponse(c, ownerID),
		ContentHTML:     markdown.ToHTML(c.Parsed.MainContent),
	}
}

func pageToResponse(page *service.ContentPage, ownerID string) ContentListResponse {
	items := make([]ContentSummaryResponse, 0, len(page.Items))
	for _, c := range page.Items {
		items = append(items, contentToSummary(c, ownerID))
	}
	return ContentListResponse{
		Items:       items,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
