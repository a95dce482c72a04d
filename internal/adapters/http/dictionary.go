package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lekkas/callbridge/internal/dictionary"
	"github.com/lekkas/callbridge/internal/domain"
)

func (d Deps) handleDictionaryList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": d.Dict.Entries()})
}

func (d Deps) handleDictionaryAdd(c *gin.Context) {
	var entry domain.DictionaryEntry
	if err := c.ShouldBindJSON(&entry); err != nil || entry.English == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing english term"})
		return
	}
	if err := d.Dict.Add(entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": d.Dict.Entries()})
}

func (d Deps) handleDictionaryDelete(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad index"})
		return
	}
	if err := d.Dict.Delete(index); err != nil {
		if errors.Is(err, dictionary.ErrBadIndex) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": d.Dict.Entries()})
}

func (d Deps) handleDictionaryClear(c *gin.Context) {
	if err := d.Dict.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": []domain.DictionaryEntry{}})
}
