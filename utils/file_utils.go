package utils

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (5MB)
	maxFileSize = 5 * 1024 * 1024
	// Logo thumbnails are resized to this width
	logoThumbnailWidth = 320
)

// Allowed image extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	// Remove any path components
	filename = filepath.Base(filename)
	// Remove any non-alphanumeric characters except for dots and hyphens
	reg := regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	return reg.ReplaceAllString(filename, "")
}

// ValidateImageFile checks the file extension against the allowed image formats
func ValidateImageFile(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif")
	}
	return nil
}

// InitializeStorage creates necessary directories for file storage
func InitializeStorage() error {
	// Create main uploads directory
	if err := os.MkdirAll(uploadBaseDir, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %v", err)
	}

	// Create subdirectories
	dirs := []string{
		filepath.Join(uploadBaseDir, "logos"),
		filepath.Join(uploadBaseDir, "thumbnails"),
		filepath.Join(uploadBaseDir, "profiles"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// UploadPartnerLogo stores a partner logo, writes a resized thumbnail next to
// it, and returns the logo URL
func UploadPartnerLogo(fileData []byte, filename string) (string, error) {
	// Validate file size
	if len(fileData) > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	// Clean and validate filename
	cleanName := cleanFilename(filename)
	if err := ValidateImageFile(cleanName); err != nil {
		return "", err
	}

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	fullPath := filepath.Join(uploadBaseDir, "logos", cleanName)
	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	// Thumbnail failures are not fatal; the original logo is already stored
	if err := writeLogoThumbnail(fileData, cleanName); err != nil {
		fmt.Printf("Warning: failed to generate logo thumbnail: %v\n", err)
	}

	return fmt.Sprintf("%s/logos/%s", baseURL, cleanName), nil
}

// writeLogoThumbnail resizes the uploaded logo and stores it as a JPEG under
// uploads/thumbnails
func writeLogoThumbnail(fileData []byte, filename string) error {
	img, err := imaging.Decode(bytes.NewReader(fileData))
	if err != nil {
		return fmt.Errorf("failed to decode image: %v", err)
	}

	// Resize to the thumbnail width while maintaining aspect ratio
	resized := imaging.Resize(img, logoThumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %v", err)
	}

	thumbnailName := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	thumbnailPath := filepath.Join(uploadBaseDir, "thumbnails", thumbnailName)
	if err := os.MkdirAll(filepath.Dir(thumbnailPath), 0755); err != nil {
		return fmt.Errorf("failed to create thumbnail directory: %v", err)
	}

	if err := os.WriteFile(thumbnailPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save thumbnail: %v", err)
	}

	return nil
}
