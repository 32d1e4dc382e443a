package views

import (
	"context"
	"fmt"
	"sort"

	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/shared"
)

// PostForm holds the state of the post composer, used for both creating
// a post and editing an existing one.
//
// On edit, existing attachments are kept unless marked for deletion;
// marking is reversible until submit. New attachments are staged with
// local previews that must be released when the form goes away.
type PostForm struct {
	board   BoardAPI
	session Session

	editID      int
	Title       string
	Content     string
	Category    string
	categories  []models.BoardCategory
	existing    []models.Attachment
	deletions   map[int]bool
	attachments []services.FileUpload
	previews    *PreviewSet
}

// NewPostForm builds a composer for a new post. The category preselects
// from the given slug (typically the active board tab) when it names a
// real category, otherwise the first catalog entry wins.
func NewPostForm(board BoardAPI, sess Session, categories []models.BoardCategory, preselect string) *PostForm {
	f := &PostForm{
		board:      board,
		session:    sess,
		categories: categories,
		deletions:  map[int]bool{},
		previews:   NewPreviewSet(),
	}
	f.Category = preselectCategory(preselect, categories)
	return f
}

// preselectCategory picks the composer's initial category: the given slug
// when it names a real category, otherwise the first catalog entry. The
// virtual hot tab never matches, so composing from it lands on the first
// real category.
func preselectCategory(slug string, categories []models.BoardCategory) string {
	for _, c := range categories {
		if c.Slug == slug {
			return slug
		}
	}
	if len(categories) > 0 {
		return categories[0].Slug
	}
	return models.FallbackCategorySlug
}

// NewEditForm builds a composer preloaded from an existing post.
func NewEditForm(board BoardAPI, sess Session, categories []models.BoardCategory, post models.BoardPost) *PostForm {
	f := NewPostForm(board, sess, categories, models.ResolveCategorySlug(post.Category, categories))
	f.editID = post.ID
	f.Title = post.Title
	f.Content = post.Content
	f.existing = post.Attachments
	return f
}

// Categories returns the selectable categories.
func (f *PostForm) Categories() []models.BoardCategory {
	return f.categories
}

// Existing returns the post's surviving attachments, deletion-marked ones
// included (the UI renders those struck through).
func (f *PostForm) Existing() []models.Attachment {
	return f.existing
}

// MarkedForDeletion reports whether an existing attachment is marked.
func (f *PostForm) MarkedForDeletion(id int) bool {
	return f.deletions[id]
}

// ToggleDeletion flips the deletion mark on an existing attachment.
func (f *PostForm) ToggleDeletion(id int) {
	if f.deletions[id] {
		delete(f.deletions, id)
	} else {
		f.deletions[id] = true
	}
}

// Attach stages a new file and returns its local preview path.
func (f *PostForm) Attach(fileName string, data []byte) (string, error) {
	preview, err := f.previews.Acquire(fileName, data)
	if err != nil {
		return "", err
	}
	f.attachments = append(f.attachments, services.FileUpload{
		FieldName: "attachments",
		FileName:  fileName,
		Data:      data,
	})
	return preview, nil
}

// Detach drops a staged file and releases its preview.
func (f *PostForm) Detach(fileName string) error {
	kept := f.attachments[:0]
	for _, a := range f.attachments {
		if a.FileName != fileName {
			kept = append(kept, a)
		}
	}
	f.attachments = kept
	return f.previews.Release(fileName)
}

// Validate checks the form against the shared post rules.
func (f *PostForm) Validate() error {
	if f.Category == "" {
		return fmt.Errorf("%w: category is required", shared.ErrInvalidInput)
	}
	return shared.ValidatePostInput(shared.PostInput{Title: f.Title, Content: f.Content})
}

// Submit validates and sends the form, then releases every staged
// preview. Create or update is picked by how the form was built.
func (f *PostForm) Submit(ctx context.Context) (*models.BoardPost, error) {
	if err := f.session.Require(); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	in := services.PostInput{
		Title:        f.Title,
		Content:      f.Content,
		CategorySlug: f.Category,
		Attachments:  f.attachments,
	}

	var post *models.BoardPost
	var err error
	if f.editID == 0 {
		post, err = f.board.CreatePost(ctx, in)
	} else {
		in.DeleteAttachmentIDs = f.deletionIDs()
		post, err = f.board.UpdatePost(ctx, f.editID, in)
	}
	if err != nil {
		return nil, err
	}

	f.Close()
	return post, nil
}

// Close releases every staged preview. Safe to call after Submit or when
// the composer is abandoned.
func (f *PostForm) Close() {
	f.previews.ReleaseAll()
}

func (f *PostForm) deletionIDs() []int {
	ids := make([]int, 0, len(f.deletions))
	for id := range f.deletions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
