package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /. All posts, newest first, ten per page.
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.postService.IndexPage(c.Context(), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"page_obj": page,
	})
}

// GroupPosts handles GET /group/:slug/. Posts of one group, paginated.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	slug := c.Params("slug")

	group, page, err := s.postService.GroupPage(c.Context(), slug, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"group":    group,
		"page_obj": page,
	})
}

// Profile handles GET /profile/:username/. The author's posts plus
// their total post count.
func (s *Server) Profile(c *fiber.Ctx) error {
	username := c.Params("username")

	author, page, err := s.postService.ProfilePage(c.Context(), username, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"author":      author,
		"posts_count": page.TotalItems,
		"page_obj":    page,
	})
}

// PostDetail handles GET /posts/:id/.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, postsCount, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"post":        post,
		"posts_count": postsCount,
	})
}

// PostCreateForm handles GET /create/. Returns the data the post form
// needs: the selectable groups.
func (s *Server) PostCreateForm(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"groups": groups,
	})
}

// PostCreate handles POST /create/. A valid submission publishes the
// post and redirects to the author's profile; an invalid one comes back
// with field errors and the submitted values.
func (s *Server) PostCreate(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username, _ := c.Locals("username").(string)

	in, err := s.parsePostForm(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.postService.CreatePost(c.Context(), userID, *in)
	if err != nil {
		return respondError(c, err)
	}

	s.publishNewPostEvent(c, post)
	middleware.Logger.InfoContext(c.UserContext(), "post created",
		"post_id", post.ID, "author", post.User.Username)

	if username == "" {
		username = post.User.Username
	}
	return c.Redirect("/profile/"+username+"/", fiber.StatusFound)
}

// PostEditForm handles GET /posts/:id/edit/. Only the author sees the
// edit form; anyone else is sent to their own profile.
func (s *Server) PostEditForm(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username, _ := c.Locals("username").(string)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// The form only needs the post itself, not the author's post count.
	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if post.UserID != userID {
		return c.Redirect("/profile/"+username+"/", fiber.StatusFound)
	}

	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"post":    post,
		"groups":  groups,
		"is_edit": true,
	})
}

// PostEdit handles POST /posts/:id/edit/. The author's edit lands back
// on the post page; a non-author is silently sent to their own profile
// with the post untouched.
func (s *Server) PostEdit(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username, _ := c.Locals("username").(string)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in, err := s.parsePostForm(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.postService.UpdatePost(c.Context(), userID, id, *in)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthor) {
			return c.Redirect("/profile/"+username+"/", fiber.StatusFound)
		}
		return respondError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post updated", "post_id", post.ID)

	return c.Redirect(postPath(post.ID), fiber.StatusFound)
}

// ServeMedia handles GET /media/*, serving uploaded post attachments.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	fullPath, err := s.imageService.Resolve(c.Params("*"))
	if err != nil {
		return respondError(c, err)
	}
	return c.SendFile(fullPath)
}

// parsePostForm reads the post form fields and the optional image
// attachment from a urlencoded or multipart body.
func (s *Server) parsePostForm(c *fiber.Ctx) (*service.PostFormInput, error) {
	in := &service.PostFormInput{
		Text:  c.FormValue("text"),
		Group: c.FormValue("group"),
	}

	fh, err := c.FormFile("image")
	if err != nil || fh == nil {
		// No attachment submitted.
		return in, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	in.Image = &service.UploadImageInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}
	return in, nil
}

// publishNewPostEvent announces the post on the feed channel so
// connected websocket clients see it immediately.
func (s *Server) publishNewPostEvent(c *fiber.Ctx, post *models.Post) {
	if s.notifier == nil || !s.flags.Enabled("live_feed", 0) {
		return
	}
	payload, err := json.Marshal(fiber.Map{
		"type":       "new_post",
		"post_id":    post.ID,
		"author":     post.User.Username,
		"created_at": post.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return
	}
	if err := s.notifier.PublishNewPost(c.Context(), string(payload)); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to publish feed event", "error", err)
	}
}

func postPath(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}
