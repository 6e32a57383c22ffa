package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/derickschaefer/dast"
	"github.com/derickschaefer/dast/htmlrender"
	"github.com/derickschaefer/dast/responsive"
	"github.com/derickschaefer/dast/seo"
	"github.com/derickschaefer/dast/video"
)

const htmlContentType = "text/html; charset=utf-8"

var adapter dast.Adapter[*html.Node] = htmlrender.Adapter{}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errorJSON(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// renderStructuredText renders any accepted structured text shape. Records
// are rendered as stubs carrying their id and type. ?strict=true validates
// the document first. ?root overrides the configured root tag.
func (s *Server) renderStructuredText(c *gin.Context) {
	root := c.DefaultQuery("root", s.cfg.Render.RootTag)
	if !dast.ValidTagName(root) {
		errorJSON(c, http.StatusBadRequest, fmt.Errorf("%w: %q", dast.ErrInvalidRootTag, root))
		return
	}

	st, err := dast.Decode(c.Request.Body)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	if c.Query("strict") == "true" {
		if errs := dast.Validate(st); len(errs) > 0 {
			details := make([]string, len(errs))
			for i, e := range errs {
				details[i] = e.Error()
			}
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "invalid document",
				"details": details,
			})
			return
		}
	}

	opts := htmlrender.WithRecordStubs(dast.Options[*html.Node]{
		Adapter: htmlrender.Adapter{KeepKeys: c.Query("keys") == "true"},
		RootTag: root,
		Logger:  s.log.Named("render"),
	})
	out, err := htmlrender.RenderString(st, opts)
	if err != nil {
		var rerr *dast.RenderError
		if errors.As(err, &rerr) {
			body := gin.H{"error": rerr.Error()}
			if rerr.Node != nil {
				body["node_type"] = string(rerr.Node.Type())
			}
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, body)
			return
		}
		s.log.Error("render failed", zap.Error(err))
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, []byte(out))
}

type imageRequest struct {
	Data         *responsive.Image            `json:"data"`
	Options      responsive.ImageOptions      `json:"options"`
	Naked        bool                         `json:"naked"`
	NakedOptions responsive.NakedImageOptions `json:"nakedOptions"`
	// LazyLoad defaults to true.
	LazyLoad *bool `json:"lazyLoad"`
}

func (s *Server) renderImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	var (
		n   *html.Node
		err error
	)
	if req.Naked {
		n, err = responsive.RenderNakedImage(adapter, req.Data, req.NakedOptions, false)
	} else {
		lazy := req.LazyLoad == nil || *req.LazyLoad
		state := responsive.State{LazyLoad: lazy}
		n, err = responsive.RenderImage(adapter, req.Data, req.Options, state, responsive.ServerEnv)
	}
	if err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeHTML(c, n)
}

type videoRequest struct {
	Data   *video.Video `json:"data"`
	Player video.Player `json:"player"`
}

func (s *Server) renderVideo(c *gin.Context) {
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if err := req.Data.Validate(); err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeHTML(c, video.Render(adapter, req.Data, req.Player))
}

// seoHead groups tags into head data, or renders them with ?format=html.
func (s *Server) seoHead(c *gin.Context) {
	tags, err := seo.DecodeTags(c.Request.Body)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	head := seo.ToHead(tags)
	if c.Query("format") != "html" {
		c.JSON(http.StatusOK, head)
		return
	}
	out, err := htmlrender.Strings(seo.RenderHead(adapter, head))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, []byte(out))
}

// placeholder computes a blur-up thumbnail for an uploaded image.
func (s *Server) placeholder(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()

	uri, err := responsive.BlurUpThumb(f, responsive.PlaceholderOptions{})
	if err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"base64": uri})
}

func (s *Server) writeHTML(c *gin.Context, n *html.Node) {
	var b bytes.Buffer
	if err := htmlrender.Render(&b, n); err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, b.Bytes())
}
