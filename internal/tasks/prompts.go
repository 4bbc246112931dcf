package tasks

// KOL_TWEET_TEMPLATE extracts project and token mentions from one tweet
const KOL_TWEET_TEMPLATE = `You are given a Web3-related tweet from a KOL:
Tweet: <text>

Extract every Web3 project and token explicitly mentioned in the tweet.
- Do not infer or guess anything that is not written in the text.
- Only include protocols, platforms, projects, companies or tokens that appear in the text.
- Use English names and ticker symbols only.

Return strict JSON:
{
  "project": [],
  "token": []
}

project (list of strings): protocols, platforms or companies, e.g. uniswap, coinbase, ethereum.
token (list of strings): ticker symbols or token names, e.g. BTC, ETH, PEPE.
Always include every key.`

// KOL_SUMMARY_TEMPLATE groups an hour of KOL tweets into events
const KOL_SUMMARY_TEMPLATE = `Below are the tweets Web3 KOLs posted during the last hour:

<all_tweets>

Group the tweets into the distinct events they discuss. Skip small talk and ads.

Return strict JSON:
{
  "events": [
    {"title": "", "summary": "", "projects": []}
  ]
}

title (string): a short headline for the event.
summary (string): two or three sentences on what happened.
projects (list of strings): projects or tokens the event is about.
Return {"events": []} when nothing is worth reporting.`

// SOURCE_MESSAGE_TEMPLATE structures one message from a polled source
const SOURCE_MESSAGE_TEMPLATE = `You are given a Web3-related message:
Message: <content>

Extract what the message says. Do not infer anything that is not written.

Return strict JSON:
{
  "project": [],
  "token": [],
  "attitude": "",
  "date": "",
  "token_holder": "",
  "address": "",
  "related_projects": [],
  "original_en": "",
  "original_zh": "",
  "actions": [],
  "news_events": [],
  "predict_actions": []
}

attitude is one of "bullish", "bearish" or "neutral". Always include every key.`
