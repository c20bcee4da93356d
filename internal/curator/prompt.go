package curator

// LLM prompt templates — data only, no logic.

// rewritePrompt turns a raw transcript into the structured summary document
// the rest of the pipeline parses. Args: title, author, platform, transcript.
// The section headings are a contract: extract.go and the website builder
// match them literally.
const rewritePrompt = `You are an editor turning raw transcripts into polished reading material.

Source title: %s
Source author: %s
Source platform: %s

Rewrite the transcript below into a structured Markdown document with EXACTLY these sections, in this order:

## Key Quotes

3-5 of the most insightful, quotable lines from the content. One per line, each starting with "- ". Keep each under 50 words. Preserve the speaker's voice; do not paraphrase into blandness.

## Summary

A deep, well-organized summary of the full content (aim for 1500-2500 words for long sources, shorter for short ones). Use sub-headings and paragraphs, not bullet spam. Cover the arguments, examples, and conclusions — a reader should get 90%% of the value without the original.

## Topic Tags

1-3 topic tags, one per line, each starting with "- ". Single words or short phrases.

Rules:
- Output ONLY the Markdown document, no preamble, no code fences
- Do NOT invent facts absent from the transcript
- Write in the SAME LANGUAGE as the transcript
- Fix obvious transcription errors silently

Transcript:
%s`
