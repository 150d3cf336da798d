package apiclient

import (
	"context"

	"github.com/lankaspa/portal/internal/model"
)

// ListBlogPosts fetches published marketing articles.
func (c *Client) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	if err := c.getJSON(ctx, "list_blog_posts", "/blog/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListGalleryImages fetches the public gallery.
func (c *Client) ListGalleryImages(ctx context.Context) ([]model.GalleryImage, error) {
	var images []model.GalleryImage
	if err := c.getJSON(ctx, "list_gallery", "/gallery", nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}
