package core

// User is the profile snapshot the backend returns on login and from
// GET /auth/profile.
//
// This is the "identity" - who is using the application right now.
// ID and role never change after registration; name and avatar can be
// edited through the profile endpoint.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Known role values. Any other string is treated as an ordinary user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ModerationStatus is the review state attached to every content entity.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

// Valid reports whether s is one of the three known statuses.
func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Owner is the abbreviated author/owner record embedded in content entities.
type Owner struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Company is a catalog entry.
type Company struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	City        string           `json:"city"`
	Status      ModerationStatus `json:"status,omitempty"`
	Address     string           `json:"address,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	Website     string           `json:"website,omitempty"`
	Description string           `json:"description,omitempty"`
	Logo        string           `json:"logo,omitempty"`
	Rating      float64          `json:"rating"`
	ReviewCount int              `json:"review_count"`
	OwnerID     int64            `json:"owner_id"`
	Owner       *Owner           `json:"owner,omitempty"`
	CreatedAt   string           `json:"created_at,omitempty"`
	UpdatedAt   string           `json:"updated_at,omitempty"`
}

// Review is a user rating of a company. The author may be anonymous, in
// which case Author.ID is zero.
type Review struct {
	ID        int64            `json:"id"`
	CompanyID int64            `json:"company_id,omitempty"`
	Rating    int              `json:"rating"`
	Text      string           `json:"text,omitempty"`
	Photos    []string         `json:"photos,omitempty"`
	Status    ModerationStatus `json:"status,omitempty"`
	Author    *Owner           `json:"author,omitempty"`
	Company   *Company         `json:"company,omitempty"`
	CreatedAt string           `json:"created_at,omitempty"`
}

// Article is a forum post.
type Article struct {
	ID         int64            `json:"id"`
	Title      string           `json:"title"`
	Content    string           `json:"content,omitempty"`
	Excerpt    string           `json:"excerpt,omitempty"`
	CoverImage string           `json:"cover_image,omitempty"`
	Tags       []string         `json:"tags,omitempty"`
	Status     ModerationStatus `json:"status,omitempty"`
	Views      int              `json:"views"`
	Author     *Owner           `json:"author,omitempty"`
	Comments   []Comment        `json:"comments,omitempty"`
	CreatedAt  string           `json:"created_at,omitempty"`
	UpdatedAt  string           `json:"updated_at,omitempty"`
}

// Comment belongs to an article.
type Comment struct {
	ID        int64            `json:"id"`
	ArticleID int64            `json:"article_id,omitempty"`
	Text      string           `json:"text"`
	Status    ModerationStatus `json:"status,omitempty"`
	Author    *Owner           `json:"author,omitempty"`
	CreatedAt string           `json:"created_at,omitempty"`
}

// Page carries the pagination metadata every paged listing shares.
type Page struct {
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
}

// CompanyPage is one page of catalog results.
type CompanyPage struct {
	Companies []Company `json:"companies"`
	Page
}

// ReviewPage is one page of reviews.
type ReviewPage struct {
	Reviews []Review `json:"reviews"`
	Page
}

// ArticlePage is one page of forum articles.
type ArticlePage struct {
	Articles []Article `json:"articles"`
	Page
}

// CommentPage is one page of comments (moderation listings).
type CommentPage struct {
	Comments []Comment `json:"comments"`
	Page
}

// SearchResults aggregates matches across entity kinds. Only the sections
// requested by the type filter are populated.
type SearchResults struct {
	Companies []Company `json:"companies,omitempty"`
	Articles  []Article `json:"articles,omitempty"`
	Reviews   []Review  `json:"reviews,omitempty"`
	Total     int       `json:"total"`
	Query     string    `json:"query,omitempty"`
}

// Suggestion is a single typeahead entry.
type Suggestion struct {
	Type string `json:"type"`
	Text string `json:"text"`
	ID   int64  `json:"id,omitempty"`
}

// UploadResult is returned by POST /upload.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
