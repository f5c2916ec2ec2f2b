// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// JNISymbol returns the export name the JNI convention derives for a native
// method: "Java_", the mangled fully qualified class name, "_", and the
// mangled method name. class uses dots or slashes as package separators.
//
//	JNISymbol("com.example.app.MainActivity", "stringFromJNI")
//	// Java_com_example_app_MainActivity_stringFromJNI
func JNISymbol(class, method string) string {
	var sb strings.Builder
	sb.WriteString("Java_")
	mangleJNI(&sb, strings.ReplaceAll(class, ".", "/"))
	sb.WriteByte('_')
	mangleJNI(&sb, method)
	return sb.String()
}

// JNIOverloadSymbol is JNISymbol for overloaded methods: the mangled
// argument signature (e.g. "Ljava/lang/String;I") is appended after "__".
func JNIOverloadSymbol(class, method, argSig string) string {
	var sb strings.Builder
	sb.WriteString(JNISymbol(class, method))
	sb.WriteString("__")
	mangleJNI(&sb, argSig)
	return sb.String()
}

func mangleJNI(sb *strings.Builder, s string) {
	for _, r := range s {
		switch {
		case r == '/':
			sb.WriteByte('_')
		case r == '_':
			sb.WriteString("_1")
		case r == ';':
			sb.WriteString("_2")
		case r == '[':
			sb.WriteString("_3")
		case r < 0x80 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'):
			sb.WriteRune(r)
		default:
			// Escaped as UTF-16 code units, so runes outside the BMP take two.
			for _, u := range utf16.Encode([]rune{r}) {
				fmt.Fprintf(sb, "_0%04x", u)
			}
		}
	}
}
