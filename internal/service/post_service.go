package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"
)

// ErrNotAuthor is returned when someone other than the author tries to
// edit a post. Handlers translate it into a redirect rather than an
// error page.
var ErrNotAuthor = errors.New("only the author can edit a post")

// PostService implements post publishing and the paginated listings.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	images    ImageStore
}

// PostFormInput is a submitted post form. Group carries the raw form
// value so validation errors can echo it back verbatim.
type PostFormInput struct {
	Text  string
	Group string
	Image *UploadImageInput
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	images ImageStore,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		images:    images,
	}
}

// resolveForm validates the submitted form and resolves the group
// reference. Field errors accumulate into a single FormError so the
// client sees everything wrong with the submission at once.
func (s *PostService) resolveForm(ctx context.Context, in PostFormInput) (*uint, string, error) {
	formErr := models.NewFormError()
	formErr.Values["text"] = in.Text
	formErr.Values["group"] = in.Group

	if strings.TrimSpace(in.Text) == "" {
		formErr.Fields["text"] = "This field is required"
	}

	var groupID *uint
	if raw := strings.TrimSpace(in.Group); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			formErr.Fields["group"] = "Select a valid group"
		} else {
			group, err := s.groupRepo.GetByID(ctx, uint(id))
			switch {
			case models.IsNotFound(err):
				formErr.Fields["group"] = "Select a valid group"
			case err != nil:
				return nil, "", err
			default:
				gid := group.ID
				groupID = &gid
			}
		}
	}

	var imagePath string
	if in.Image != nil {
		path, err := s.images.Save(*in.Image)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
				formErr.Fields["image"] = appErr.Message
			} else {
				return nil, "", err
			}
		} else {
			imagePath = path
		}
	}

	if formErr.HasErrors() {
		return nil, "", formErr
	}
	return groupID, imagePath, nil
}

// CreatePost validates the form and publishes a new post authored by
// userID.
func (s *PostService) CreatePost(ctx context.Context, userID uint, in PostFormInput) (*models.Post, error) {
	groupID, imagePath, err := s.resolveForm(ctx, in)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:    in.Text,
		UserID:  userID,
		GroupID: groupID,
		Image:   imagePath,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()

	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost applies an edit submitted by editorID. Anyone other than
// the author gets ErrNotAuthor back without any change being applied.
// A successful edit keeps the original publication date and, absent a
// new upload, the original image.
func (s *PostService) UpdatePost(ctx context.Context, editorID, postID uint, in PostFormInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != editorID {
		return nil, ErrNotAuthor
	}

	groupID, imagePath, err := s.resolveForm(ctx, in)
	if err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.GroupID = groupID
	post.Group = nil
	if imagePath != "" {
		post.Image = imagePath
	}
	post.UserID = editorID

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns the post together with its author's total post count.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, int64, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	authorPosts, err := s.postRepo.CountByUserID(ctx, post.UserID)
	if err != nil {
		return nil, 0, err
	}
	return post, authorPosts, nil
}

// IndexPage returns one page of the site-wide feed, newest first. The
// first page is the hottest read on the site, so it is served
// cache-aside; writes drop the key through cache.InvalidateIndex.
func (s *PostService) IndexPage(ctx context.Context, requested int) (*pagination.Page, error) {
	if requested <= 1 {
		var page pagination.Page
		err := cache.Aside(ctx, cache.IndexKey(1), &page, cache.IndexTTL, func() error {
			fresh, err := s.buildIndexPage(ctx, requested)
			if err != nil {
				return err
			}
			page = *fresh
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &page, nil
	}
	return s.buildIndexPage(ctx, requested)
}

func (s *PostService) buildIndexPage(ctx context.Context, requested int) (*pagination.Page, error) {
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	w := pagination.Paginate(total, requested)
	posts, err := s.postRepo.List(ctx, w.Limit, w.Offset)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(posts, w, total), nil
}

// GroupPage resolves a group by slug and returns one page of its posts.
func (s *PostService) GroupPage(ctx context.Context, slug string, requested int) (*models.Group, *pagination.Page, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.postRepo.CountByGroupID(ctx, group.ID)
	if err != nil {
		return nil, nil, err
	}
	w := pagination.Paginate(total, requested)
	posts, err := s.postRepo.GetByGroupID(ctx, group.ID, w.Limit, w.Offset)
	if err != nil {
		return nil, nil, err
	}
	return group, pagination.NewPage(posts, w, total), nil
}

// ProfilePage resolves an author by username and returns one page of
// their posts. The page's TotalItems doubles as the profile post count.
func (s *PostService) ProfilePage(ctx context.Context, username string, requested int) (*models.User, *pagination.Page, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.postRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	w := pagination.Paginate(total, requested)
	posts, err := s.postRepo.GetByUserID(ctx, user.ID, w.Limit, w.Offset)
	if err != nil {
		return nil, nil, err
	}
	return user, pagination.NewPage(posts, w, total), nil
}
