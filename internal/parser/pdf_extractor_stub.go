package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"intern-match-go/internal/logger"
)

// SampleResumeText 占位 PDF 解析器返回的固定简历文本
const SampleResumeText = `John Doe
Software Engineer
Email: john.doe@email.com
Phone: (555) 123-4567

EXPERIENCE
Software Developer Intern | TechCorp | Summer 2023
- Developed web applications using React and Node.js
- Improved website performance by 40%
- Collaborated with cross-functional teams

EDUCATION
Bachelor of Science in Computer Science
University of Technology | Expected May 2024
GPA: 3.7/4.0

SKILLS
Programming Languages: JavaScript, Python, Java, C++
Frameworks: React, Node.js, Express.js, Django
Tools: Git, Docker, AWS, MongoDB
Other: Agile Development, REST APIs, Database Design`

// TextExtractor 从上传的文件中取出纯文本
type TextExtractor interface {
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error)
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error)
}

// StubPDFExtractor 不解析 PDF 内容，总是返回固定文本。
// 只检查文件头，保证上传的确实是 PDF。
type StubPDFExtractor struct {
	text       string
	checkMagic bool
	logger     zerolog.Logger
}

// StubPDFOption 占位解析器的配置选项
type StubPDFOption func(*StubPDFExtractor)

// WithStubText 替换返回的固定文本，主要用于测试
func WithStubText(text string) StubPDFOption {
	return func(e *StubPDFExtractor) {
		e.text = text
	}
}

// WithMagicCheck 是否校验 %PDF- 文件头
func WithMagicCheck(enabled bool) StubPDFOption {
	return func(e *StubPDFExtractor) {
		e.checkMagic = enabled
	}
}

// WithStubLogger 配置日志记录器
func WithStubLogger(l zerolog.Logger) StubPDFOption {
	return func(e *StubPDFExtractor) {
		e.logger = l
	}
}

// NewStubPDFExtractor 创建占位 PDF 解析器
func NewStubPDFExtractor(options ...StubPDFOption) *StubPDFExtractor {
	e := &StubPDFExtractor{
		text:   SampleResumeText,
		logger: logger.Logger.With().Str("component", "stub_pdf").Logger(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

var pdfMagic = []byte("%PDF-")

// ExtractTextFromBytes 实现 TextExtractor
func (e *StubPDFExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	if e.checkMagic && !bytes.HasPrefix(data, pdfMagic) {
		return "", nil, fmt.Errorf("文件 %s 不是有效的PDF", uri)
	}
	e.logger.Debug().Str("uri", uri).Int("bytes", len(data)).Msg("使用占位文本代替PDF解析结果")
	return e.text, map[string]interface{}{
		"source":    uri,
		"size":      len(data),
		"extractor": "stub",
	}, nil
}

// ExtractTextFromReader 实现 TextExtractor
func (e *StubPDFExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, fmt.Errorf("读取文件 %s 失败: %w", uri, err)
	}
	return e.ExtractTextFromBytes(ctx, data, uri)
}

// ExtractFromFile 读取本地文件并返回文本，供命令行工具使用
func (e *StubPDFExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("读取文件 %s 失败: %w", filePath, err)
	}
	return e.ExtractTextFromBytes(ctx, data, filePath)
}
