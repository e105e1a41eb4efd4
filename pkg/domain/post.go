package domain

// PostStatus is the publication state of a post as reported by the backend.
type PostStatus uint8

const (
	PostStatusDraft PostStatus = iota
	PostStatusPublished
	PostStatusPrivate
)

// String returns the lowercase name of the status.
func (s PostStatus) String() string {
	switch s {
	case PostStatusDraft:
		return "draft"
	case PostStatusPublished:
		return "published"
	case PostStatusPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// Post is an article owned by an author. Drafts are only visible to their
// author; published posts are public.
type Post struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	AuthorID   int64      `json:"authorId,omitempty"`
	Status     PostStatus `json:"status"`
	Ctime      int64      `json:"ctime,omitempty"`
	Utime      int64      `json:"utime,omitempty"`
	LikeCnt    int64      `json:"likeCnt"`
	CollectCnt int64      `json:"collectCnt"`
	ReadCnt    int64      `json:"readCnt"`
	Liked      bool       `json:"liked"`
	Collected  bool       `json:"collected"`
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts    []Post `json:"posts"`
	Total    int64  `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// SavedPost is returned by save and publish.
type SavedPost struct {
	ID int64 `json:"id"`
}
