package util

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/japanese"
)

var indentRe = regexp.MustCompile("(?m)^")

func Indent(text string, indent string) string {
	if text == "" {
		return text
	}
	return indentRe.ReplaceAllString(text, indent)
}

func Hex(stream []uint8) string {
	if len(stream) == 0 {
		return "[]"
	}
	s := ""
	for _, b := range stream {
		s += fmt.Sprintf(" %02X", b)
	}
	return "[" + s[1:] + "]"
}

func DecodeShiftJIS(s []uint8) string {
	decoder := japanese.ShiftJIS.NewDecoder()
	reader := bufio.NewReader(decoder.Reader(bytes.NewReader([]byte(s))))
	result := []string{}
	for {
		line, _, err := reader.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			break
		}
		result = append(result, string(line))
	}
	return strings.Join(result, "\n")
}
